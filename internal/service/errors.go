package service

import "errors"

// 业务错误。handler 层据此映射 HTTP 状态码：
// 校验错误 400、权限错误 403、未找到 404，其余 500。
var (
	ErrEmptyCart     = errors.New("カートが空です")
	ErrStoreNotFound = errors.New("店舗情報が見つかりません")
	ErrOrderNotFound = errors.New("注文が見つかりません")
	ErrForbidden     = errors.New("この操作を行う権限がありません")
	ErrInvalidStatus = errors.New("不正な注文ステータスです")
)
