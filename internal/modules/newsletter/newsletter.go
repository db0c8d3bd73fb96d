package newsletter

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrInvalidEmail = errors.New("invalid email")

type Subscriber struct {
	ID        string `gorm:"primaryKey;type:char(36)"`
	Email     string `gorm:"size:255;not null;uniqueIndex:ux_newsletter_email"`
	Source    string `gorm:"size:32;not null;default:index"`
	CreatedAt time.Time
}

func (Subscriber) TableName() string { return "newsletter_subscribers" }

type Repository interface {
	Insert(ctx context.Context, s Subscriber) error
}

type Repo struct{ db *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{db: db} }

func (r *Repo) Insert(ctx context.Context, s Subscriber) error {
	return r.db.WithContext(ctx).Create(&s).Error
}

type Service struct{ repo Repository }

func NewService(repo Repository) *Service { return &Service{repo: repo} }

// Subscribe records the address. Subscribing twice is not an error.
func (s *Service) Subscribe(ctx context.Context, email, source string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return ErrInvalidEmail
	}
	if source == "" {
		source = "index"
	}
	err := s.repo.Insert(ctx, Subscriber{
		ID:        uuid.NewString(),
		Email:     email,
		Source:    source,
		CreatedAt: time.Now(),
	})
	if err != nil && !isDuplicateKey(err) {
		return err
	}
	return nil
}

func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == 1062
	}
	return false
}
