package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/Skotchmaster/campus_cafeteria/internal/hash"
	"github.com/Skotchmaster/campus_cafeteria/internal/models"
	"github.com/Skotchmaster/campus_cafeteria/internal/repo"
)

type ManagerService struct {
	Repo *repo.GormRepo
}

func (svc *ManagerService) Create(ctx context.Context, username, password, email string) (*models.Manager, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password required", ErrValidation)
	}

	pw, err := hash.HashPassword(password)
	if err != nil {
		return nil, err
	}
	m := &models.Manager{Username: username, Email: strings.TrimSpace(email), PasswordHash: pw}
	if err := svc.Repo.CreateManager(ctx, m); err != nil {
		return nil, translate(err, "manager "+username+" already exists")
	}
	return m, nil
}

func (svc *ManagerService) Authenticate(ctx context.Context, username, password string) (*models.Manager, error) {
	m, err := svc.Repo.GetManagerByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}
	if err != nil {
		return nil, err
	}
	if !hash.CheckPassword(m.PasswordHash, password) {
		return nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}
	return m, nil
}
