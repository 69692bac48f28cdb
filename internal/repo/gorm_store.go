package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"go-portfolio-api/internal/domain"
	"go-portfolio-api/pkg/utils"
)

// GormStore 持久化后端，配置了 db.dsn 时选用
type GormStore struct{ db *gorm.DB }

func NewGormStore(db *gorm.DB) *GormStore { return &GormStore{db: db} }

func (s *GormStore) AutoMigrate() error {
	return s.db.AutoMigrate(
		&domain.AdminUser{},
		&domain.Project{},
		&domain.Profile{},
		&domain.Session{},
	)
}

func (s *GormStore) AdminByID(ctx context.Context, id string) (*domain.AdminUser, error) {
	var u domain.AdminUser
	err := s.db.WithContext(ctx).First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *GormStore) AdminByUsername(ctx context.Context, username string) (*domain.AdminUser, error) {
	var u domain.AdminUser
	err := s.db.WithContext(ctx).First(&u, "username = ?", username).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateAdmin 事务内 count-then-insert，配合 username 唯一索引收窄并发建号窗口
func (s *GormStore) CreateAdmin(ctx context.Context, username, passwordHash string) (*domain.AdminUser, error) {
	u := domain.AdminUser{
		ID:        utils.NewID(),
		Username:  username,
		Password:  passwordHash,
		CreatedAt: time.Now(),
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&domain.AdminUser{}).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return domain.ErrAdminExists
		}
		return tx.Create(&u).Error
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *GormStore) AdminExists(ctx context.Context) (bool, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&domain.AdminUser{}).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *GormStore) UpdateAdminPassword(ctx context.Context, id, passwordHash string) (*domain.AdminUser, error) {
	res := s.db.WithContext(ctx).Model(&domain.AdminUser{}).Where("id = ?", id).Update("password", passwordHash)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return s.AdminByID(ctx, id)
}

func (s *GormStore) UpdateAdminProfileImage(ctx context.Context, id string, imageURL *string) (*domain.AdminUser, error) {
	res := s.db.WithContext(ctx).Model(&domain.AdminUser{}).Where("id = ?", id).Update("profile_image_url", imageURL)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return s.AdminByID(ctx, id)
}

// ListProjects 先按创建时间取出，再在内存里按 OrderIndex 数值稳定排序，
// 平局保持插入序，且三种方言行为一致
func (s *GormStore) ListProjects(ctx context.Context) ([]domain.Project, error) {
	var ps []domain.Project
	if err := s.db.WithContext(ctx).Order("created_at asc").Find(&ps).Error; err != nil {
		return nil, err
	}
	domain.SortProjects(ps)
	return ps, nil
}

func (s *GormStore) ProjectByID(ctx context.Context, id string) (*domain.Project, error) {
	var p domain.Project
	err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *GormStore) CreateProject(ctx context.Context, in domain.Project) (*domain.Project, error) {
	in.ID = utils.NewID()
	in.CreatedAt = time.Now()
	applyProjectDefaults(&in)
	if err := s.db.WithContext(ctx).Create(&in).Error; err != nil {
		return nil, err
	}
	return &in, nil
}

func (s *GormStore) UpdateProject(ctx context.Context, id string, patch domain.ProjectPatch) (*domain.Project, error) {
	var out *domain.Project
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p domain.Project
		err := tx.First(&p, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		p.Apply(patch)
		// Save 会回写 CreatedAt 原值，不触碰创建时间
		if err := tx.Save(&p).Error; err != nil {
			return err
		}
		out = &p
		return nil
	})
	return out, err
}

func (s *GormStore) DeleteProject(ctx context.Context, id string) (bool, error) {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Project{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *GormStore) Profile(ctx context.Context) (*domain.Profile, error) {
	var p domain.Profile
	err := s.db.WithContext(ctx).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *GormStore) UpdateProfile(ctx context.Context, patch domain.ProfilePatch) (*domain.Profile, error) {
	var out domain.Profile
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p domain.Profile
		err := tx.First(&p).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			p = domain.SeedProfile()
			p.ID = utils.NewID()
			p.Apply(patch)
			p.UpdatedAt = time.Now()
			if err := tx.Create(&p).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			p.Apply(patch)
			p.UpdatedAt = time.Now()
			if err := tx.Save(&p).Error; err != nil {
				return err
			}
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *GormStore) CreateSession(ctx context.Context, sess domain.Session) error {
	return s.db.WithContext(ctx).Create(&sess).Error
}

func (s *GormStore) SessionByToken(ctx context.Context, token string) (*domain.Session, error) {
	var sess domain.Session
	err := s.db.WithContext(ctx).First(&sess, "token = ?", token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if sess.Expired(time.Now()) {
		// 过期行懒清理
		_ = s.db.WithContext(ctx).Delete(&sess).Error
		return nil, nil
	}
	return &sess, nil
}

func (s *GormStore) DeleteSession(ctx context.Context, token string) error {
	return s.db.WithContext(ctx).Where("token = ?", token).Delete(&domain.Session{}).Error
}
