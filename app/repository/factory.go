package repository

import (
	"sync"

	"github.com/ManuelReschke/PayFox/internal/pkg/database"
	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	Signup          SignupRepository
	NotificationLog NotificationLogRepository
}

// NewRepositories creates all repositories from a DB handle
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Signup:          NewSignupRepository(db),
		NotificationLog: NewNotificationLogRepository(db),
	}
}

// Factory manages repository instances and ensures they are singletons
type Factory struct {
	db    *gorm.DB
	repos *Repositories
	once  sync.Once
}

// NewFactory creates a new repository factory
func NewFactory(db *gorm.DB) *Factory {
	return &Factory{
		db: db,
	}
}

// GetRepositories returns a singleton instance of all repositories
func (f *Factory) GetRepositories() *Repositories {
	f.once.Do(func() {
		f.repos = NewRepositories(f.db)
	})
	return f.repos
}

// GetSignupRepository returns the signup repository instance
func (f *Factory) GetSignupRepository() SignupRepository {
	return f.GetRepositories().Signup
}

// GetNotificationLogRepository returns the notification log repository instance
func (f *Factory) GetNotificationLogRepository() NotificationLogRepository {
	return f.GetRepositories().NotificationLog
}

var (
	globalFactory     *Factory
	globalFactoryOnce sync.Once
)

// GetGlobalFactory returns the process-wide factory bound to the shared DB.
func GetGlobalFactory() *Factory {
	globalFactoryOnce.Do(func() {
		globalFactory = NewFactory(database.GetDB())
	})
	return globalFactory
}
