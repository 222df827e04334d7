package employee

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	employeeerrors "go-leave/internal/employee/errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const profileTTL = 5 * time.Minute

// Directory answers the employee questions the approval flows ask:
// department, department-head flag and monthly salary.
type Directory interface {
	Profile(ctx context.Context, id string) (Profile, error)
	MonthlySalary(ctx context.Context, tx *sql.Tx, id string, asOf time.Time) (decimal.Decimal, error)
	Invalidate(ctx context.Context, id string) error
}

type service struct {
	repo   Repository
	rdb    redis.Cmdable
	sf     singleflight.Group
	logger *zap.Logger
}

func NewDirectory(repo Repository, rdb redis.Cmdable, logger ...*zap.Logger) Directory {
	l := zap.L().Named("employee.directory")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.directory")
	}
	return &service{repo: repo, rdb: rdb, logger: l}
}

// Profile reads through the Redis cache. Lookups for the same employee are
// collapsed with singleflight.
func (s *service) Profile(ctx context.Context, id string) (Profile, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Profile{}, employeeerrors.ErrInvalidEmployeeID
	}
	cacheKey := GetProfileKey(id)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var p Profile
			if json.Unmarshal([]byte(cached), &p) == nil {
				return p, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		empl, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		p := toProfile(*empl)

		if s.rdb != nil {
			if jsonData, err := json.Marshal(p); err == nil {
				if err := s.rdb.Set(ctx, cacheKey, jsonData, profileTTL).Err(); err != nil {
					s.logger.Warn("cache employee profile failed", zap.String("key", cacheKey), zap.Error(err))
				}
			}
		}
		return p, nil
	})
	if err != nil {
		s.logger.Warn("get employee profile failed", zap.String("employee_id", id), zap.Error(err))
		return Profile{}, mapRepositoryError(err)
	}
	return v.(Profile), nil
}

func (s *service) MonthlySalary(ctx context.Context, tx *sql.Tx, id string, asOf time.Time) (decimal.Decimal, error) {
	salary, err := s.repo.WithTx(tx).FindLatestSalary(ctx, id, asOf)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, employeeerrors.ErrSalaryNotFound
		}
		s.logger.Error("get employee salary failed", zap.String("employee_id", id), zap.Error(err))
		return decimal.Zero, err
	}
	return salary.BaseSalary, nil
}

func (s *service) Invalidate(ctx context.Context, id string) error {
	if s.rdb == nil {
		return nil
	}
	return s.rdb.Del(ctx, GetProfileKey(id)).Err()
}
