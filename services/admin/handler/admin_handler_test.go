package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"auction-site/internal/auctionerrors"
	model "auction-site/internal/models"
	"auction-site/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

func newTestRouter(h *AdminHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/admin", h.ListEntitiesHandler)
	router.GET("/admin/:entity", h.ListRecordsHandler)
	router.GET("/admin/:entity/:id", h.GetRecordHandler)
	router.POST("/admin/:entity", h.CreateRecordHandler)
	router.PUT("/admin/:entity/:id", h.UpdateRecordHandler)
	router.DELETE("/admin/:entity/:id", h.DeleteRecordHandler)
	return router
}

func serve(t *testing.T, router *gin.Engine, method, url, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, url, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

// Test ListEntitiesHandler
func TestListEntitiesHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockAdminServiceInterface(ctrl)
	router := newTestRouter(NewAdminHandler(mockService))

	mockService.EXPECT().Entities().Return([]string{"auction", "user"})

	w, resp := serve(t, router, http.MethodGet, "/admin", "")
	require.Equal(t, http.StatusOK, w.Code)
	data := resp["data"].([]any)
	require.Len(t, data, 2)
	require.Equal(t, "/admin/user", data[1].(map[string]any)["path"])
}

// Test CreateRecordHandler
func TestCreateRecordHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockAdminServiceInterface(ctrl)
	router := newTestRouter(NewAdminHandler(mockService))

	tests := []struct {
		name           string
		entity         string
		body           string
		mockSetup      func()
		expectedStatus int
		expectedMsg    string
		validateData   func(t *testing.T, data map[string]any)
	}{
		{
			name:   "success_product",
			entity: "product",
			body:   `{"title":"Xbox","category":"CON"}`,
			mockSetup: func() {
				mockService.EXPECT().
					Create(gomock.Any(), "product", []byte(`{"title":"Xbox","category":"CON"}`)).
					Return(&model.Product{ID: 3, Title: "Xbox", Category: model.CategoryConsole}, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedMsg:    "record created successfully",
			validateData: func(t *testing.T, data map[string]any) {
				require.Equal(t, float64(3), data["id"])
				require.Equal(t, "CON", data["category"])
			},
		},
		{
			name:   "unknown_entity",
			entity: "payment",
			body:   `{}`,
			mockSetup: func() {
				mockService.EXPECT().Create(gomock.Any(), "payment", gomock.Any()).
					Return(nil, fmt.Errorf("service: %w", auctionerrors.ErrUnknownEntity))
			},
			expectedStatus: http.StatusNotFound,
			expectedMsg:    "unknown entity",
		},
		{
			name:   "invalid_category",
			entity: "product",
			body:   `{"category":"PHN"}`,
			mockSetup: func() {
				mockService.EXPECT().Create(gomock.Any(), "product", []byte(`{"category":"PHN"}`)).
					Return(nil, auctionerrors.ErrInvalidCategory)
			},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid product category",
		},
		{
			name:   "missing_parent",
			entity: "bid",
			body:   `{"user_id":1,"auction_id":99}`,
			mockSetup: func() {
				mockService.EXPECT().Create(gomock.Any(), "bid", gomock.Any()).
					Return(nil, auctionerrors.ErrParentNotFound)
			},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "referenced record not found",
		},
		{
			name:   "malformed_payload",
			entity: "user",
			body:   `{bad json}`,
			mockSetup: func() {
				mockService.EXPECT().Create(gomock.Any(), "user", gomock.Any()).
					Return(nil, auctionerrors.ErrInvalidRecord)
			},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid record",
		},
		{
			name:   "service_generic_error",
			entity: "chat",
			body:   `{}`,
			mockSetup: func() {
				mockService.EXPECT().Create(gomock.Any(), "chat", gomock.Any()).
					Return(nil, errors.New("database failure"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedMsg:    "internal server error",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.mockSetup()

			w, resp := serve(t, router, http.MethodPost, "/admin/"+tc.entity, tc.body)
			require.Equal(t, tc.expectedStatus, w.Code)
			require.Contains(t, resp["message"], tc.expectedMsg)

			if tc.validateData != nil {
				tc.validateData(t, resp["data"].(map[string]any))
			}
		})
	}
}

// Test GetRecordHandler, UpdateRecordHandler and DeleteRecordHandler
func TestRecordByIDHandlers(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockAdminServiceInterface(ctrl)
	router := newTestRouter(NewAdminHandler(mockService))

	tests := []struct {
		name           string
		method         string
		url            string
		body           string
		mockSetup      func()
		expectedStatus int
		expectedMsg    string
	}{
		{
			name:   "get_success",
			method: http.MethodGet,
			url:    "/admin/auction/7",
			mockSetup: func() {
				mockService.EXPECT().Get(gomock.Any(), "auction", uint(7)).Return(&model.Auction{ID: 7}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "record retrieved successfully",
		},
		{
			name:   "get_not_found",
			method: http.MethodGet,
			url:    "/admin/auction/8",
			mockSetup: func() {
				mockService.EXPECT().Get(gomock.Any(), "auction", uint(8)).Return(nil, auctionerrors.ErrRecordNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedMsg:    "record not found",
		},
		{
			name:           "get_non_numeric_id",
			method:         http.MethodGet,
			url:            "/admin/auction/abc",
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid record id",
		},
		{
			name:           "get_zero_id",
			method:         http.MethodGet,
			url:            "/admin/auction/0",
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid record id",
		},
		{
			name:   "update_success",
			method: http.MethodPut,
			url:    "/admin/user/2",
			body:   `{"username":"new"}`,
			mockSetup: func() {
				mockService.EXPECT().Update(gomock.Any(), "user", uint(2), []byte(`{"username":"new"}`)).
					Return(&model.User{ID: 2, Username: "new"}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "record updated successfully",
		},
		{
			name:   "update_invalid",
			method: http.MethodPut,
			url:    "/admin/user/3",
			body:   `{"email":"nope"}`,
			mockSetup: func() {
				mockService.EXPECT().Update(gomock.Any(), "user", uint(3), gomock.Any()).Return(nil, auctionerrors.ErrInvalidRecord)
			},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid record",
		},
		{
			name:   "delete_success",
			method: http.MethodDelete,
			url:    "/admin/product/4",
			mockSetup: func() {
				mockService.EXPECT().Delete(gomock.Any(), "product", uint(4)).Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "record deleted successfully",
		},
		{
			name:   "delete_not_found",
			method: http.MethodDelete,
			url:    "/admin/product/5",
			mockSetup: func() {
				mockService.EXPECT().Delete(gomock.Any(), "product", uint(5)).Return(auctionerrors.ErrRecordNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedMsg:    "record not found",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.mockSetup()

			w, resp := serve(t, router, tc.method, tc.url, tc.body)
			require.Equal(t, tc.expectedStatus, w.Code)
			require.Contains(t, resp["message"], tc.expectedMsg)
		})
	}
}

// Test ListRecordsHandler
func TestListRecordsHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockAdminServiceInterface(ctrl)
	router := newTestRouter(NewAdminHandler(mockService))

	mockService.EXPECT().List(gomock.Any(), "bid").Return(&[]model.Bid{{ID: 1}, {ID: 2}}, nil)
	w, resp := serve(t, router, http.MethodGet, "/admin/bid", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, resp["data"], 2)

	mockService.EXPECT().List(gomock.Any(), "bid").Return(&[]model.Bid{}, nil)
	w, resp = serve(t, router, http.MethodGet, "/admin/bid", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, resp["data"], 0)
}

func TestGetRecordHandler_LogsSuccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	var buf bytes.Buffer
	utils.SetOutput(&buf)
	t.Cleanup(func() { utils.SetOutput(os.Stdout) })

	mockService := NewMockAdminServiceInterface(ctrl)
	mockService.EXPECT().Get(gomock.Any(), "product", uint(3)).Return(&model.Product{ID: 3}, nil)
	router := newTestRouter(NewAdminHandler(mockService))

	w, _ := serve(t, router, http.MethodGet, "/admin/product/3", "")
	require.Equal(t, http.StatusOK, w.Code)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "GetRecordHandler: record retrieved successfully", entry["msg"])
	require.Equal(t, "product", entry["entity"])
	require.EqualValues(t, 3, entry["id"])
}
