package employee_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"go-leave/internal/employee"
	employeeerrors "go-leave/internal/employee/errors"
	employeeMock "go-leave/internal/employee/mock"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

func TestDirectory_Profile(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	dept := uuid.New()

	t.Run("cache hit skips repository", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := employeeMock.NewMockRepository(ctrl)
		db, mock := redismock.NewClientMock()

		cached, _ := json.Marshal(employee.Profile{ID: id.String(), DepartmentID: dept.String(), IsDepartmentHead: true})
		mock.ExpectGet(employee.GetProfileKey(id.String())).SetVal(string(cached))
		repo.EXPECT().FindByID(gomock.Any(), gomock.Any()).Times(0)

		dir := employee.NewDirectory(repo, db)
		p, err := dir.Profile(ctx, id.String())

		assert.NoError(t, err)
		assert.True(t, p.IsDepartmentHead)
		assert.Equal(t, dept.String(), p.DepartmentID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("cache miss loads and stores", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := employeeMock.NewMockRepository(ctrl)
		db, mock := redismock.NewClientMock()

		key := employee.GetProfileKey(id.String())
		mock.ExpectGet(key).RedisNil()
		want := employee.Profile{ID: id.String(), DepartmentID: dept.String(), FullName: "Rina"}
		payload, _ := json.Marshal(want)
		mock.ExpectSet(key, payload, 5*time.Minute).SetVal("OK")

		repo.EXPECT().
			FindByID(gomock.Any(), id.String()).
			Return(&employee.Employee{ID: id, DepartmentID: &dept, FullName: "Rina"}, nil).
			Times(1)

		dir := employee.NewDirectory(repo, db)
		p, err := dir.Profile(ctx, id.String())

		assert.NoError(t, err)
		assert.Equal(t, want, p)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := employeeMock.NewMockRepository(ctrl)
		repo.EXPECT().FindByID(gomock.Any(), gomock.Any()).Return(nil, gorm.ErrRecordNotFound)

		dir := employee.NewDirectory(repo, nil)
		_, err := dir.Profile(ctx, uuid.NewString())

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})

	t.Run("invalid id", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		dir := employee.NewDirectory(employeeMock.NewMockRepository(ctrl), nil)

		_, err := dir.Profile(ctx, "nope")
		assert.ErrorIs(t, err, employeeerrors.ErrInvalidEmployeeID)
	})
}

func TestDirectory_InvalidateThenProfileReloads(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	repo := employeeMock.NewMockRepository(ctrl)
	db, mock := redismock.NewClientMock()
	id := uuid.New()
	oldDept, newDept := uuid.New(), uuid.New()
	key := employee.GetProfileKey(id.String())

	stale, _ := json.Marshal(employee.Profile{ID: id.String(), DepartmentID: oldDept.String(), IsDepartmentHead: true})
	fresh := employee.Profile{ID: id.String(), DepartmentID: newDept.String(), IsDepartmentHead: true}
	freshPayload, _ := json.Marshal(fresh)

	mock.ExpectGet(key).SetVal(string(stale))
	mock.ExpectDel(key).SetVal(1)
	mock.ExpectGet(key).RedisNil()
	mock.ExpectSet(key, freshPayload, 5*time.Minute).SetVal("OK")
	repo.EXPECT().
		FindByID(gomock.Any(), id.String()).
		Return(&employee.Employee{ID: id, DepartmentID: &newDept, IsDepartmentHead: true}, nil).
		Times(1)

	dir := employee.NewDirectory(repo, db)

	before, err := dir.Profile(ctx, id.String())
	assert.NoError(t, err)
	assert.Equal(t, oldDept.String(), before.DepartmentID)

	assert.NoError(t, dir.Invalidate(ctx, id.String()))

	after, err := dir.Profile(ctx, id.String())
	assert.NoError(t, err)
	assert.Equal(t, fresh, after)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDirectory_MonthlySalary(t *testing.T) {
	ctx := context.Background()

	t.Run("latest salary", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := employeeMock.NewMockRepository(ctrl)
		repo.EXPECT().WithTx(gomock.Any()).Return(repo)
		repo.EXPECT().
			FindLatestSalary(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(&employee.EmployeeSalary{BaseSalary: decimal.NewFromInt(22000)}, nil)

		dir := employee.NewDirectory(repo, nil)
		salary, err := dir.MonthlySalary(ctx, nil, uuid.NewString(), time.Now())

		assert.NoError(t, err)
		assert.True(t, salary.Equal(decimal.NewFromInt(22000)))
	})

	t.Run("no salary", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := employeeMock.NewMockRepository(ctrl)
		repo.EXPECT().WithTx(gomock.Any()).Return(repo)
		repo.EXPECT().
			FindLatestSalary(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, gorm.ErrRecordNotFound)

		dir := employee.NewDirectory(repo, nil)
		_, err := dir.MonthlySalary(ctx, nil, uuid.NewString(), time.Now())

		assert.ErrorIs(t, err, employeeerrors.ErrSalaryNotFound)
	})
}

func TestDirectory_Invalidate(t *testing.T) {
	ctrl := gomock.NewController(t)
	db, mock := redismock.NewClientMock()
	id := uuid.NewString()
	mock.ExpectDel(employee.GetProfileKey(id)).SetVal(1)

	dir := employee.NewDirectory(employeeMock.NewMockRepository(ctrl), db)

	assert.NoError(t, dir.Invalidate(context.Background(), id))
	assert.NoError(t, mock.ExpectationsWereMet())
}
