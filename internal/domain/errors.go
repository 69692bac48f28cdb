package domain

import "errors"

var (
	// ErrAdminExists 单管理员约束：已存在则永久拒绝再次创建
	ErrAdminExists = errors.New("admin account already exists")
	// ErrInvalidCredentials 用户名不存在/密码错误统一返回，防止账号枚举
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	// ErrRelayDelivery 联系表单投递失败；不会污染存储状态
	ErrRelayDelivery = errors.New("notification delivery failed")
)
