package echoapi_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	echoapi "github.com/trezcool/fsnd/apps/api/echo"
	"github.com/trezcool/fsnd/core"
	"github.com/trezcool/fsnd/core/coffee"
	"github.com/trezcool/fsnd/core/trivia"
	authsvc "github.com/trezcool/fsnd/services/auth"
	inmemdb "github.com/trezcool/fsnd/storage/database/inmem"
	testutil "github.com/trezcool/fsnd/tests"
)

type testApp struct {
	*echoapi.Server
	conf       *core.Config
	triviaRepo trivia.Repository
	coffeeRepo coffee.Repository
	gate       *authsvc.HMACGate
}

func setup(t *testing.T) *testApp {
	t.Helper()
	conf := testutil.NewConfig()

	// set up DB & repos
	db := inmemdb.Open()
	tx := inmemdb.NewTransactor(db)
	triviaRepo := inmemdb.NewTriviaRepository(db)
	coffeeRepo := inmemdb.NewCoffeeRepository(db)

	// set up services
	validate, translator := testutil.NewValidator(conf)
	gate := authsvc.NewHMACGate(conf)

	// set up server
	server := echoapi.NewServer(echoapi.Deps{
		Conf:       conf,
		Logger:     testutil.NewLogger(conf),
		Gate:       gate,
		Validate:   validate,
		Translator: translator,
		TriviaSvc:  trivia.NewService(tx, triviaRepo, conf),
		CoffeeSvc:  coffee.NewService(tx, coffeeRepo),
	})

	return &testApp{
		Server:     server,
		conf:       conf,
		triviaRepo: triviaRepo,
		coffeeRepo: coffeeRepo,
		gate:       gate,
	}
}

type httpErr struct {
	Success bool              `json:"success"`
	Error   int               `json:"error"`
	Message string            `json:"message"`
	Code    string            `json:"code,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func newHTTPErr(code int, message string) httpErr {
	return httpErr{Error: code, Message: message}
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func (app *testApp) do(tt httpTest) *httptest.ResponseRecorder {
	method := tt.method
	if method == "" {
		method = http.MethodGet
	}
	req, rec := newAuthRequest(method, tt.path, tt.token, tt.body)
	app.ServeHTTP(rec, req)
	return rec
}

func (app *testApp) run(t *testing.T, tests []httpTest) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := app.do(tt)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func marshallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshallObj() failed: %v", err)
	}
	return data
}

func unmarshallObj(t *testing.T, data []byte, obj interface{}) {
	if err := json.Unmarshal(data, obj); err != nil {
		t.Fatalf("unmarshallObj() failed: %v", err)
	}
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	wantCode := tt.wantCode
	if wantCode == 0 {
		wantCode = http.StatusOK
	}
	if rec.Code != wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
