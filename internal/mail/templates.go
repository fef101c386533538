package mail

import (
	"bytes"
	"fmt"
	"html/template"
)

// 邮件模板。内容与前端的确认/完成通知保持一致（日文）。

var confirmationTmpl = template.Must(template.New("order_confirmation").Parse(`<!DOCTYPE html>
<html>
<body style="font-family:sans-serif;background-color:#f5f5f5;margin:0;padding:0;">
  <div style="max-width:600px;margin:0 auto;background-color:#ffffff;">
    <div style="background-color:#e53935;padding:16px;text-align:center;">
      <p style="color:#ffffff;font-size:24px;font-weight:bold;margin:0;">EAT &amp; GO</p>
    </div>
    <div style="padding:24px;">
      <h1 style="font-size:20px;">ご注文ありがとうございます！</h1>
      <p>{{.CustomerName}}様</p>
      <p>ご注文が正常に受け付けられました。以下の内容でご確認ください。</p>
      <div style="background-color:#fafafa;padding:12px;margin:16px 0;">
        <p style="margin:4px 0;">注文番号: {{.OrderNumber}}</p>
        <p style="margin:4px 0;">注文日時: {{.OrderDate}}</p>
        {{if .PickupTime}}<p style="margin:4px 0;">受け取り時間: {{.PickupTime}}</p>{{end}}
      </div>
      <h2 style="font-size:16px;">ご注文内容</h2>
      {{range .Items}}
      <div style="border-bottom:1px solid #eeeeee;padding:8px 0;">
        <p style="margin:0;">{{.Name}} × {{.Quantity}}</p>
        <p style="margin:0;color:#757575;">&yen;{{.Price}}</p>
      </div>
      {{end}}
      <p style="font-size:18px;font-weight:bold;margin-top:16px;">合計: &yen;{{.TotalAmount}}</p>
      <p>お呼び出しまでしばらくお待ちください。</p>
    </div>
  </div>
</body>
</html>`))

var readyTmpl = template.Must(template.New("order_ready").Parse(`<!DOCTYPE html>
<html>
<body style="font-family:sans-serif;background-color:#f5f5f5;margin:0;padding:0;">
  <div style="max-width:600px;margin:0 auto;background-color:#ffffff;">
    <div style="background-color:#e53935;padding:16px;text-align:center;">
      <p style="color:#ffffff;font-size:24px;font-weight:bold;margin:0;">EAT &amp; GO</p>
    </div>
    <div style="padding:24px;">
      <h1 style="font-size:20px;">ご注文の準備ができました！</h1>
      <p>{{.CustomerName}}様</p>
      <p>ご注文いただいた商品の準備が整いました。</p>
      <div style="background-color:#fafafa;padding:12px;margin:16px 0;text-align:center;">
        <p style="margin:4px 0;color:#757575;">注文番号</p>
        <p style="margin:4px 0;font-size:28px;font-weight:bold;">{{.OrderNumber}}</p>
      </div>
      <div style="background-color:#fff8e1;padding:12px;margin:16px 0;">
        <p style="margin:4px 0;font-weight:bold;">【重要】商品の受け取りについて</p>
        <p style="margin:4px 0;">✓ カウンターまでお越しください<br>✓ お受け取りの際に、この画面か注文番号がわかるものをご提示ください</p>
      </div>
      <p>ご利用いただき、誠にありがとうございます。</p>
    </div>
  </div>
</body>
</html>`))

// Render 根据消息种类渲染邮件主题与 HTML 正文
func Render(m *Message) (subject, html string, err error) {
	if m.CustomerName == "" {
		m.CustomerName = "お客様"
	}

	var buf bytes.Buffer
	switch m.Kind {
	case KindOrderConfirmation:
		subject = fmt.Sprintf("【EAT & GO】ご注文確認 - 注文番号: %s", m.OrderNumber)
		err = confirmationTmpl.Execute(&buf, m)
	case KindOrderReady:
		subject = fmt.Sprintf("【EAT & GO】ご注文の準備ができました - 注文番号: %s", m.OrderNumber)
		err = readyTmpl.Execute(&buf, m)
	default:
		return "", "", fmt.Errorf("unknown mail kind: %q", m.Kind)
	}
	if err != nil {
		return "", "", err
	}
	return subject, buf.String(), nil
}
