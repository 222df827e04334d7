package creditconversion_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-leave/internal/creditconversion"
	creditconversionerrors "go-leave/internal/creditconversion/errors"
	"go-leave/internal/middleware"
	"go-leave/internal/workflow"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeConversionService struct {
	SubmitFn  func(ctx context.Context, actor workflow.Actor, req creditconversion.SubmitConversionRequest) (creditconversion.ConversionResponse, error)
	GetByIDFn func(ctx context.Context, id string) (creditconversion.ConversionResponse, error)
	ApproveFn func(ctx context.Context, actor workflow.Actor, id string) (creditconversion.ConversionResponse, error)
	RejectFn  func(ctx context.Context, actor workflow.Actor, id, remarks string) (creditconversion.ConversionResponse, error)
}

func (f *fakeConversionService) Submit(ctx context.Context, actor workflow.Actor, req creditconversion.SubmitConversionRequest) (creditconversion.ConversionResponse, error) {
	return f.SubmitFn(ctx, actor, req)
}
func (f *fakeConversionService) GetByID(ctx context.Context, id string) (creditconversion.ConversionResponse, error) {
	return f.GetByIDFn(ctx, id)
}
func (f *fakeConversionService) Approve(ctx context.Context, actor workflow.Actor, id string) (creditconversion.ConversionResponse, error) {
	return f.ApproveFn(ctx, actor, id)
}
func (f *fakeConversionService) Reject(ctx context.Context, actor workflow.Actor, id, remarks string) (creditconversion.ConversionResponse, error) {
	return f.RejectFn(ctx, actor, id, remarks)
}

func newContext(method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func TestConversionHandler_Submit(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &fakeConversionService{
			SubmitFn: func(ctx context.Context, actor workflow.Actor, req creditconversion.SubmitConversionRequest) (creditconversion.ConversionResponse, error) {
				assert.Equal(t, 12.0, req.CreditsRequested)
				return creditconversion.ConversionResponse{ID: uuid.NewString(), EffectiveCredits: "12"}, nil
			},
		}
		c, w := newContext(http.MethodPost, "/credit-conversions", `{"leave_type":"VL","credits_requested":12}`)
		c.Set(middleware.CtxEmployeeID, uuid.NewString())

		creditconversion.NewHandler(svc).Submit(c)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("quota exceeded", func(t *testing.T) {
		svc := &fakeConversionService{
			SubmitFn: func(ctx context.Context, actor workflow.Actor, req creditconversion.SubmitConversionRequest) (creditconversion.ConversionResponse, error) {
				return creditconversion.ConversionResponse{}, creditconversionerrors.ErrQuotaExceeded
			},
		}
		c, w := newContext(http.MethodPost, "/credit-conversions", `{"leave_type":"VL","credits_requested":5}`)

		creditconversion.NewHandler(svc).Submit(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "QUOTA_EXCEEDED")
	})

	t.Run("missing credits", func(t *testing.T) {
		c, w := newContext(http.MethodPost, "/credit-conversions", `{"leave_type":"VL"}`)

		creditconversion.NewHandler(&fakeConversionService{}).Submit(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestConversionHandler_ApproveIgnoresBody(t *testing.T) {
	id := uuid.NewString()
	svc := &fakeConversionService{
		ApproveFn: func(ctx context.Context, actor workflow.Actor, gotID string) (creditconversion.ConversionResponse, error) {
			assert.Equal(t, id, gotID)
			assert.Equal(t, "admin", actor.Role)
			return creditconversion.ConversionResponse{ID: id, Status: "admin_approved"}, nil
		},
	}
	c, w := newContext(http.MethodPost, "/credit-conversions/"+id+"/approve", `{"remarks":"ignored"}`)
	c.Params = gin.Params{{Key: "id", Value: id}}
	c.Set(middleware.CtxRole, "admin")

	creditconversion.NewHandler(svc).Approve(c)

	assert.Equal(t, http.StatusOK, w.Code)
}
