package repo

import (
	"context"
	"sync"
	"time"

	"go-portfolio-api/internal/domain"
	"go-portfolio-api/pkg/utils"
)

// MemStore 进程内后端：无 DSN 时兜底，重启即失。
// 预置占位 Profile，保证公共页面零配置可渲染
type MemStore struct {
	mu       sync.RWMutex
	admins   map[string]domain.AdminUser
	projects []domain.Project // 保留插入序，排序平局时依赖它
	profile  *domain.Profile
	sessions map[string]domain.Session
}

func NewMemStore() *MemStore {
	seed := domain.SeedProfile()
	seed.ID = utils.NewID()
	seed.UpdatedAt = time.Now()
	return &MemStore{
		admins:   make(map[string]domain.AdminUser),
		profile:  &seed,
		sessions: make(map[string]domain.Session),
	}
}

func (s *MemStore) AdminByID(_ context.Context, id string) (*domain.AdminUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if u, ok := s.admins[id]; ok {
		return &u, nil
	}
	return nil, nil
}

func (s *MemStore) AdminByUsername(_ context.Context, username string) (*domain.AdminUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.admins {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (s *MemStore) CreateAdmin(_ context.Context, username, passwordHash string) (*domain.AdminUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.admins) > 0 {
		return nil, domain.ErrAdminExists
	}
	u := domain.AdminUser{
		ID:        utils.NewID(),
		Username:  username,
		Password:  passwordHash,
		CreatedAt: time.Now(),
	}
	s.admins[u.ID] = u
	return &u, nil
}

func (s *MemStore) AdminExists(_ context.Context) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.admins) > 0, nil
}

func (s *MemStore) UpdateAdminPassword(_ context.Context, id, passwordHash string) (*domain.AdminUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.admins[id]
	if !ok {
		return nil, nil
	}
	u.Password = passwordHash
	s.admins[id] = u
	return &u, nil
}

func (s *MemStore) UpdateAdminProfileImage(_ context.Context, id string, imageURL *string) (*domain.AdminUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.admins[id]
	if !ok {
		return nil, nil
	}
	u.ProfileImageURL = imageURL
	s.admins[id] = u
	return &u, nil
}

func (s *MemStore) ListProjects(_ context.Context) ([]domain.Project, error) {
	s.mu.RLock()
	out := make([]domain.Project, len(s.projects))
	copy(out, s.projects)
	s.mu.RUnlock()

	domain.SortProjects(out)
	return out, nil
}

func (s *MemStore) ProjectByID(_ context.Context, id string) (*domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.projects {
		if p.ID == id {
			p := p
			return &p, nil
		}
	}
	return nil, nil
}

func (s *MemStore) CreateProject(_ context.Context, in domain.Project) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	in.ID = utils.NewID()
	in.CreatedAt = time.Now()
	applyProjectDefaults(&in)
	s.projects = append(s.projects, in)
	return &in, nil
}

func (s *MemStore) UpdateProject(_ context.Context, id string, patch domain.ProjectPatch) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.projects {
		if s.projects[i].ID == id {
			s.projects[i].Apply(patch)
			p := s.projects[i]
			return &p, nil
		}
	}
	return nil, nil
}

func (s *MemStore) DeleteProject(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.projects {
		if s.projects[i].ID == id {
			s.projects = append(s.projects[:i], s.projects[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *MemStore) Profile(_ context.Context) (*domain.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil {
		return nil, nil
	}
	p := *s.profile
	return &p, nil
}

func (s *MemStore) UpdateProfile(_ context.Context, patch domain.ProfilePatch) (*domain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile == nil {
		p := domain.SeedProfile()
		p.ID = utils.NewID()
		s.profile = &p
	}
	s.profile.Apply(patch)
	s.profile.UpdatedAt = time.Now()
	p := *s.profile
	return &p, nil
}

func (s *MemStore) CreateSession(_ context.Context, sess domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.Token] = sess
	return nil
}

func (s *MemStore) SessionByToken(_ context.Context, token string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[token]
	if !ok {
		return nil, nil
	}
	if sess.Expired(time.Now()) {
		delete(s.sessions, token)
		return nil, nil
	}
	return &sess, nil
}

func (s *MemStore) DeleteSession(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

// 两后端共用的建项默认值
func applyProjectDefaults(p *domain.Project) {
	if p.DeviceType == "" {
		p.DeviceType = domain.DeviceMonitor
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if p.OrderIndex == "" {
		p.OrderIndex = "0"
	}
}
