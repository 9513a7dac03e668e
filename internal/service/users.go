package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/campus_cafeteria/internal/hash"
	"github.com/Skotchmaster/campus_cafeteria/internal/models"
	"github.com/Skotchmaster/campus_cafeteria/internal/repo"
	"github.com/Skotchmaster/campus_cafeteria/internal/transport"
	"github.com/Skotchmaster/campus_cafeteria/pkg/logging"
	"github.com/Skotchmaster/campus_cafeteria/pkg/tokens"
)

const ResetTTL = 15 * time.Minute

type UserService struct {
	Repo *repo.GormRepo
	// ResetSecret signs reset tokens; keep it distinct from the access
	// token secret (see tokens.DeriveKey).
	ResetSecret []byte
}

func (svc *UserService) Register(ctx context.Context, req transport.RegisterRequest) (*models.ShopUser, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	if name == "" || email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: name, email and password are required", ErrValidation)
	}
	if req.Password != req.ConfirmPassword {
		return nil, fmt.Errorf("%w: passwords do not match", ErrValidation)
	}
	if strings.TrimSpace(req.SecurityQuestion1) == "" || strings.TrimSpace(req.SecurityAnswer1) == "" {
		return nil, fmt.Errorf("%w: a security question is required", ErrValidation)
	}

	pw, err := hash.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	a1, err := hash.HashPassword(hash.NormalizeAnswer(req.SecurityAnswer1))
	if err != nil {
		return nil, err
	}

	user := &models.ShopUser{
		Name:              name,
		Email:             email,
		Phone:             strings.TrimSpace(req.Phone),
		PasswordHash:      pw,
		SecurityQuestion1: strings.TrimSpace(req.SecurityQuestion1),
		SecurityAnswer1:   a1,
	}
	if q2 := strings.TrimSpace(req.SecurityQuestion2); q2 != "" && strings.TrimSpace(req.SecurityAnswer2) != "" {
		a2, err := hash.HashPassword(hash.NormalizeAnswer(req.SecurityAnswer2))
		if err != nil {
			return nil, err
		}
		user.SecurityQuestion2 = q2
		user.SecurityAnswer2 = a2
	}

	if err := svc.Repo.CreateUser(ctx, user); err != nil {
		return nil, translate(err, "name or email already registered")
	}
	logging.FromContext(ctx).Info("user_registered", "svc", "user.register", "user_id", user.ID)
	return user, nil
}

func (svc *UserService) Authenticate(ctx context.Context, name, password string) (*models.ShopUser, error) {
	user, err := svc.Repo.GetUserByName(ctx, name)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}
	if err != nil {
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		return nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}
	return user, nil
}

func (svc *UserService) resetStep(user *models.ShopUser, answered int) (*transport.ResetStep, error) {
	subject := strconv.FormatUint(uint64(user.ID), 10)
	token, err := tokens.NewResetToken(subject, tokens.PasswordStamp(user.PasswordHash), answered, time.Now().Add(ResetTTL), svc.ResetSecret)
	if err != nil {
		return nil, err
	}
	step := &transport.ResetStep{ResetToken: token}
	if answered >= user.QuestionCount() {
		step.Verified = true
	} else {
		step.Question = user.Question(answered + 1)
	}
	return step, nil
}

func (svc *UserService) userFromReset(ctx context.Context, token string) (*models.ShopUser, *tokens.ResetClaims, error) {
	claims, err := tokens.ResetClaimsFromToken(token, svc.ResetSecret)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: reset session expired", ErrUnauthorized)
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: bad reset subject", ErrUnauthorized)
	}
	user, err := svc.Repo.GetUser(ctx, uint(id))
	if err != nil {
		return nil, nil, translate(err, "user")
	}
	if claims.Stamp != tokens.PasswordStamp(user.PasswordHash) {
		return nil, nil, fmt.Errorf("%w: reset session expired", ErrUnauthorized)
	}
	return user, claims, nil
}

// StartReset begins the security question flow for a user name.
func (svc *UserService) StartReset(ctx context.Context, name string) (*transport.ResetStep, error) {
	user, err := svc.Repo.GetUserByName(ctx, name)
	if err != nil {
		return nil, translate(err, "no account with that name")
	}
	return svc.resetStep(user, 0)
}

// AnswerQuestion checks the answer to the next unanswered question and
// returns either the following question or a verified token.
func (svc *UserService) AnswerQuestion(ctx context.Context, token, answer string) (*transport.ResetStep, error) {
	user, claims, err := svc.userFromReset(ctx, token)
	if err != nil {
		return nil, err
	}
	if claims.Answered >= user.QuestionCount() {
		return svc.resetStep(user, claims.Answered)
	}

	n := claims.Answered + 1
	if !hash.CheckPassword(user.AnswerHash(n), hash.NormalizeAnswer(answer)) {
		return nil, fmt.Errorf("%w: incorrect answer", ErrValidation)
	}
	return svc.resetStep(user, n)
}

func (svc *UserService) ResetPassword(ctx context.Context, req transport.ResetPasswordRequest) error {
	user, claims, err := svc.userFromReset(ctx, req.ResetToken)
	if err != nil {
		return err
	}
	if claims.Answered < user.QuestionCount() {
		return fmt.Errorf("%w: security questions not answered", ErrForbidden)
	}
	if req.Password == "" || req.Password != req.Confirm {
		return fmt.Errorf("%w: passwords do not match", ErrValidation)
	}
	if hash.CheckPassword(user.PasswordHash, req.Password) {
		return fmt.Errorf("%w: new password must differ from the old one", ErrValidation)
	}

	pw, err := hash.HashPassword(req.Password)
	if err != nil {
		return err
	}
	if err := svc.Repo.UpdateUserPassword(ctx, user.ID, pw); err != nil {
		return translate(err, "user")
	}
	logging.FromContext(ctx).Info("password_reset", "svc", "user.reset_password", "user_id", user.ID)
	return nil
}

// History lists the orders placed under the shopper's name.
func (svc *UserService) History(ctx context.Context, name string) ([]transport.HistoryOrder, error) {
	orders, err := svc.Repo.ListOrdersByStudent(ctx, name)
	if err != nil {
		return nil, err
	}

	out := make([]transport.HistoryOrder, 0, len(orders))
	for i := range orders {
		o := &orders[i]
		h := transport.HistoryOrder{
			OrderID:   o.OrderID,
			StudentID: o.StudentID,
			Date:      o.DateCreated.UnixMilli(),
			Status:    o.Status,
			Total:     o.Total(),
			Items:     make([]transport.HistoryItem, 0, len(o.Items)),
		}
		for _, it := range o.Items {
			h.Items = append(h.Items, transport.HistoryItem{Name: it.Name, Price: it.Price, Quantity: it.Quantity})
		}
		out = append(out, h)
	}
	return out, nil
}
