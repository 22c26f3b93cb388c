package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"time"

	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"github.com/wmhi/site-portal/internal/models"
	"github.com/wmhi/site-portal/internal/repository"
	"github.com/wmhi/site-portal/internal/services"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

// PortalTestSuite runs requests through the full router against a seeded
// workspace stored in an in-memory SQLite database.
type PortalTestSuite struct {
	suite.Suite
	db     *gorm.DB
	ws     *services.Workspace
	svc    Services
	router *gin.Engine
}

// SetupTest runs before each test
func (suite *PortalTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)

	suite.Require().NoError(suite.db.AutoMigrate(&models.KVEntry{}))

	repo := repository.NewPortalRepository(repository.NewKVRepository(suite.db))
	suite.ws = services.NewWorkspace(repo, zap.NewNop(),
		services.WithClock(func() time.Time { return testNow }),
		services.WithLocation(time.UTC),
	)
	suite.Require().NoError(suite.ws.Load())

	gin.SetMode(gin.TestMode)
	suite.svc = NewServices(suite.ws, services.NewAIService("", "", zap.NewNop()))
	suite.router = NewRouter(suite.svc, cookie.NewStore([]byte("secret")), zap.NewNop())
}

// TearDownTest runs after each test
func (suite *PortalTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

// login signs in through the API and returns the session cookies
func (suite *PortalTestSuite) login(email string) []*http.Cookie {
	w := suite.do(http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": "password",
	}, nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	return w.Result().Cookies()
}

func (suite *PortalTestSuite) do(method, url string, body any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, url, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return suite.send(req, cookies)
}

func (suite *PortalTestSuite) upload(url, filename, contentType string, data []byte, fields map[string]string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		suite.Require().NoError(mw.WriteField(k, v))
	}
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	suite.Require().NoError(err)
	_, err = part.Write(data)
	suite.Require().NoError(err)
	suite.Require().NoError(mw.Close())

	req := httptest.NewRequest(http.MethodPost, url, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return suite.send(req, cookies)
}

func (suite *PortalTestSuite) send(req *http.Request, cookies []*http.Cookie) *httptest.ResponseRecorder {
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *PortalTestSuite) decode(w *httptest.ResponseRecorder, v any) {
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

const (
	adminEmail   = "sarah@wmhi.co.uk"
	managerEmail = "mike@wmhi.co.uk"
	builderEmail = "dave@wmhi.co.uk"
)
