package domain

import "context"

// Store 存储门面：凭证、内容、会话三类实体的统一契约。
// 进程启动时选定一个后端，全程不切换。
// 预期未命中返回 (nil, nil)，error 只留给存储自身故障
type Store interface {
	// 凭证
	AdminByID(ctx context.Context, id string) (*AdminUser, error)
	AdminByUsername(ctx context.Context, username string) (*AdminUser, error)
	// CreateAdmin 已有管理员时返回 ErrAdminExists；ID/CreatedAt 由存储层生成
	CreateAdmin(ctx context.Context, username, passwordHash string) (*AdminUser, error)
	AdminExists(ctx context.Context) (bool, error)
	UpdateAdminPassword(ctx context.Context, id, passwordHash string) (*AdminUser, error)
	UpdateAdminProfileImage(ctx context.Context, id string, imageURL *string) (*AdminUser, error)

	// 内容
	ListProjects(ctx context.Context) ([]Project, error)
	ProjectByID(ctx context.Context, id string) (*Project, error)
	CreateProject(ctx context.Context, in Project) (*Project, error)
	UpdateProject(ctx context.Context, id string, patch ProjectPatch) (*Project, error)
	DeleteProject(ctx context.Context, id string) (bool, error)
	Profile(ctx context.Context) (*Profile, error)
	// UpdateProfile 无记录时以默认值+patch 创建，总是返回完整记录
	UpdateProfile(ctx context.Context, patch ProfilePatch) (*Profile, error)

	// 会话
	CreateSession(ctx context.Context, s Session) error
	SessionByToken(ctx context.Context, token string) (*Session, error)
	DeleteSession(ctx context.Context, token string) error
}
