package shop

import (
	"context"
	"database/sql"
	"strings"
	"time"

	shoperrors "go-payroll/internal/shop/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	Create(ctx context.Context, req CreateShopRequest) (ShopResponse, error)
	GetAll(ctx context.Context) ([]ShopResponse, error)
	GetByID(ctx context.Context, id string) (ShopResponse, error)
	Update(ctx context.Context, id string, req UpdateShopRequest) (ShopResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("shop.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("shop.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func (s *service) Create(ctx context.Context, req CreateShopRequest) (ShopResponse, error) {
	name := strings.TrimSpace(req.Name)
	s.logger.Debug("create shop requested", zap.String("name", name))

	shop := &Shop{ID: uuid.New(), Name: name}
	if err := s.repo.Create(ctx, shop); err != nil {
		s.logger.Error("create shop persist failed", zap.Error(err))
		return ShopResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("create shop success", zap.String("shop_id", shop.ID.String()))
	return mapToResponse(*shop), nil
}

func (s *service) GetAll(ctx context.Context) ([]ShopResponse, error) {
	shops, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("get all shops failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	res := make([]ShopResponse, len(shops))
	for i, sh := range shops {
		res[i] = mapToResponse(sh)
	}
	return res, nil
}

func (s *service) GetByID(ctx context.Context, id string) (ShopResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return ShopResponse{}, shoperrors.ErrInvalidShopID
	}

	shop, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.logger.Warn("get shop by id failed", zap.String("shop_id", id), zap.Error(err))
		return ShopResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*shop), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateShopRequest) (ShopResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return ShopResponse{}, shoperrors.ErrInvalidShopID
	}
	s.logger.Debug("update shop requested", zap.String("shop_id", id))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update shop begin tx failed", zap.Error(err))
		return ShopResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	shop, err := qtx.FindByID(ctx, id)
	if err != nil {
		return ShopResponse{}, mapRepositoryError(err)
	}

	shop.Name = strings.TrimSpace(req.Name)
	if err := qtx.Update(ctx, shop); err != nil {
		s.logger.Error("update shop persist failed", zap.Error(err))
		return ShopResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update shop commit failed", zap.Error(err))
		return ShopResponse{}, err
	}

	s.logger.Info("update shop success", zap.String("shop_id", id))
	return mapToResponse(*shop), nil
}

func mapToResponse(s Shop) ShopResponse {
	return ShopResponse{
		ID:        s.ID.String(),
		Name:      s.Name,
		CreatedAt: s.CreatedAt.Format(time.RFC3339),
	}
}
