package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/damienaltman42/sb1-u3qtxy/config"
	"github.com/damienaltman42/sb1-u3qtxy/database"
	"github.com/damienaltman42/sb1-u3qtxy/metrics"
	"github.com/damienaltman42/sb1-u3qtxy/middleware"
	"github.com/damienaltman42/sb1-u3qtxy/repositories"
	"github.com/damienaltman42/sb1-u3qtxy/services"
	"github.com/damienaltman42/sb1-u3qtxy/utils"

	"go.uber.org/zap"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	handler http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "api.db"))
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := database.Migrate(db); err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}

	cfg := &config.Config{
		Env:          "development",
		AppPublicURL: "https://wheel.example",
		JWT:          config.JWTConfig{Secret: "test-secret", AccessTTL: time.Hour},
		HTTP:         config.HTTPConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		Codes:        config.CodesConfig{Length: 6},
	}
	store := repositories.NewGormStore(db)
	log := zap.NewNop()
	router, stop := InitRouter(Deps{
		Config:   cfg,
		Log:      log,
		Services: services.New(store, cfg.Codes.Length),
		Issuer:   utils.NewTokenIssuer(cfg.JWT, utils.NewRevoker(nil, store.RevokedTokens())),
		Guard:    middleware.NewLoginGuard(nil),
		Metrics:  metrics.NewMetrics("test", nil),
		Ping:     store.Ping,
	})
	t.Cleanup(stop)
	return &testServer{handler: middleware.RequestIDMiddleware(middleware.RecoveryMiddleware(log)(router))}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.RemoteAddr = "192.0.2.1:1234"
	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, req)

	var env envelope
	if strings.HasPrefix(rr.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
			t.Fatalf("%s %s: decode response: %v (%s)", method, path, err, rr.Body.String())
		}
	}
	return rr, env
}

func decode(t *testing.T, raw json.RawMessage, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(raw, dst); err != nil {
		t.Fatalf("decode data: %v (%s)", err, string(raw))
	}
}

func (s *testServer) register(t *testing.T, email, role string) (token, id string) {
	t.Helper()
	rr, env := s.do(t, "POST", "/auth/register", "", map[string]interface{}{
		"email":    email,
		"username": "user-" + strings.Split(email, "@")[0],
		"password": "secret123",
		"role":     role,
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("register %s: status %d (%s)", email, rr.Code, rr.Body.String())
	}
	var data struct {
		AccessToken string `json:"accessToken"`
		User        struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	decode(t, env.Data, &data)
	return data.AccessToken, data.User.ID
}

func (s *testServer) createRoulette(t *testing.T, token string) string {
	t.Helper()
	rr, env := s.do(t, "POST", "/roulettes", token, map[string]interface{}{
		"name": "Spring wheel",
		"items": []map[string]interface{}{
			{"id": "a", "text": "Sticker", "color": "#f00", "probability": 3},
			{"id": "b", "text": "Poster", "color": "#0f0", "probability": 1},
		},
		"packages": []map[string]interface{}{{"id": "p1", "name": "Starter", "price": 4.99, "spins": 3}},
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create roulette: status %d (%s)", rr.Code, rr.Body.String())
	}
	var data struct {
		ID string `json:"id"`
	}
	decode(t, env.Data, &data)
	return data.ID
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rr, env := s.do(t, "GET", "/health", "", nil)
	if rr.Code != http.StatusOK || env.Message != "healthy" {
		t.Fatalf("unexpected health: %d %+v", rr.Code, env)
	}
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.register(t, "fan@example.com", "user")

	rr, _ := s.do(t, "POST", "/auth/register", "", map[string]interface{}{
		"email": "fan@example.com", "username": "again", "password": "secret123",
	})
	if rr.Code != http.StatusConflict {
		t.Fatalf("duplicate register: expected 409, got %d", rr.Code)
	}

	rr, env := s.do(t, "POST", "/auth/login", "", map[string]interface{}{"email": "FAN@example.com", "password": "wrong-pass"})
	if rr.Code != http.StatusUnauthorized || env.Message != "Invalid credentials" {
		t.Fatalf("bad login: %d %+v", rr.Code, env)
	}
	rr, _ = s.do(t, "POST", "/auth/login", "", map[string]interface{}{"email": "fan@example.com", "password": "secret123"})
	if rr.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", rr.Code)
	}

	rr, env = s.do(t, "GET", "/users/me", token, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("me: expected 200, got %d", rr.Code)
	}
	if strings.Contains(string(env.Data), "password") {
		t.Fatalf("password leaked: %s", string(env.Data))
	}

	rr, _ = s.do(t, "POST", "/auth/logout", token, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d (%s)", rr.Code, rr.Body.String())
	}
	rr, _ = s.do(t, "GET", "/users/me", token, nil)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("revoked token: expected 401, got %d", rr.Code)
	}
}

func TestRouletteAndCodeFlow(t *testing.T) {
	s := newTestServer(t)
	creatorTok, _ := s.register(t, "creator@example.com", "creator")
	otherTok, _ := s.register(t, "other@example.com", "creator")
	fanTok, _ := s.register(t, "fan@example.com", "user")

	rr, _ := s.do(t, "POST", "/roulettes", fanTok, map[string]interface{}{
		"name": "x", "items": []map[string]interface{}{{"id": "a", "text": "A", "probability": 1}},
	})
	if rr.Code != http.StatusForbidden {
		t.Fatalf("user creating roulette: expected 403, got %d", rr.Code)
	}

	rid := s.createRoulette(t, creatorTok)

	rr, env := s.do(t, "GET", "/roulettes/my", creatorTok, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("my roulettes: expected 200, got %d", rr.Code)
	}
	var mine []struct {
		ID string `json:"id"`
	}
	decode(t, env.Data, &mine)
	if len(mine) != 1 || mine[0].ID != rid {
		t.Fatalf("unexpected my roulettes: %+v", mine)
	}

	rr, _ = s.do(t, "DELETE", "/roulettes/"+rid, otherTok, nil)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("foreign delete: expected 401, got %d", rr.Code)
	}

	rr, env = s.do(t, "POST", "/access-codes", creatorTok, map[string]interface{}{"rouletteId": rid, "totalSpins": 2, "expiresIn": 7})
	if rr.Code != http.StatusCreated {
		t.Fatalf("issue: expected 201, got %d (%s)", rr.Code, rr.Body.String())
	}
	var code struct {
		ID   string `json:"id"`
		Code string `json:"code"`
	}
	decode(t, env.Data, &code)

	rr, _ = s.do(t, "POST", "/access-codes", otherTok, map[string]interface{}{"rouletteId": rid, "totalSpins": 1})
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("foreign issue: expected 401, got %d", rr.Code)
	}

	rr, env = s.do(t, "POST", "/access-codes/verify", "", map[string]interface{}{"rouletteId": rid, "code": strings.ToLower(code.Code)})
	if rr.Code != http.StatusOK {
		t.Fatalf("verify: expected 200, got %d (%s)", rr.Code, rr.Body.String())
	}
	var v map[string]interface{}
	decode(t, env.Data, &v)
	if v["id"] != code.ID || v["spinsLeft"].(float64) != 2 {
		t.Fatalf("unexpected verification: %v", v)
	}
	if _, leaked := v["code"]; leaked {
		t.Fatalf("verification must not return the code string")
	}

	rr, _ = s.do(t, "POST", "/access-codes/"+code.ID+"/use", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("use: expected 200, got %d", rr.Code)
	}

	rr, env = s.do(t, "POST", "/roulettes/"+rid+"/spin", fanTok, map[string]interface{}{"codeId": code.ID})
	if rr.Code != http.StatusOK {
		t.Fatalf("spin: expected 200, got %d (%s)", rr.Code, rr.Body.String())
	}
	var spin struct {
		Win struct {
			ID      string `json:"id"`
			Claimed bool   `json:"claimed"`
		} `json:"win"`
		SpinsLeft int `json:"spinsLeft"`
	}
	decode(t, env.Data, &spin)
	if spin.SpinsLeft != 0 || spin.Win.ID == "" {
		t.Fatalf("unexpected spin result: %+v", spin)
	}

	rr, env = s.do(t, "POST", "/access-codes/"+code.ID+"/use", "", nil)
	if rr.Code != http.StatusUnauthorized || env.Message != "No spins remaining" {
		t.Fatalf("exhausted use: %d %+v", rr.Code, env)
	}
	rr, _ = s.do(t, "POST", "/access-codes/verify", "", map[string]interface{}{"rouletteId": rid, "code": code.Code})
	if rr.Code != http.StatusNotFound {
		t.Fatalf("verify used code: expected 404, got %d", rr.Code)
	}

	rr, _ = s.do(t, "POST", "/wins/"+spin.Win.ID+"/claim", fanTok, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("claim: expected 200, got %d", rr.Code)
	}
	rr, env = s.do(t, "POST", "/wins/"+spin.Win.ID+"/claim", fanTok, nil)
	if rr.Code != http.StatusUnauthorized || env.Message != "Prize already claimed" {
		t.Fatalf("second claim: %d %+v", rr.Code, env)
	}

	rr, _ = s.do(t, "GET", "/access-codes/"+code.ID+"/qr", creatorTok, nil)
	if rr.Code != http.StatusOK || rr.Header().Get("Content-Type") != "image/png" {
		t.Fatalf("qr: %d %s", rr.Code, rr.Header().Get("Content-Type"))
	}
	rr, _ = s.do(t, "GET", "/access-codes/"+code.ID+"/qr", otherTok, nil)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("foreign qr: expected 401, got %d", rr.Code)
	}

	rr, _ = s.do(t, "GET", "/roulettes/"+rid+"/access-codes/export", creatorTok, nil)
	if rr.Code != http.StatusOK || !strings.Contains(rr.Header().Get("Content-Disposition"), ".xlsx") {
		t.Fatalf("export: %d %v", rr.Code, rr.Header())
	}

	rr, _ = s.do(t, "DELETE", "/access-codes/"+code.ID, creatorTok, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("revoke: expected 200, got %d", rr.Code)
	}
	rr, _ = s.do(t, "DELETE", "/access-codes/"+code.ID, creatorTok, nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("revoke again: expected 404, got %d", rr.Code)
	}
}

func TestLikesAndSocialLinks(t *testing.T) {
	s := newTestServer(t)
	creatorTok, _ := s.register(t, "creator@example.com", "creator")
	fanTok, fanID := s.register(t, "fan@example.com", "user")
	rid := s.createRoulette(t, creatorTok)

	for i := 0; i < 2; i++ {
		if rr, _ := s.do(t, "POST", "/likes/"+rid, fanTok, nil); rr.Code != http.StatusOK {
			t.Fatalf("like: expected 200, got %d", rr.Code)
		}
	}
	_, env := s.do(t, "GET", "/roulettes/"+rid, "", nil)
	var rl struct {
		Likes   int `json:"likes"`
		Creator struct {
			Username string `json:"username"`
		} `json:"creator"`
	}
	decode(t, env.Data, &rl)
	if rl.Likes != 1 || rl.Creator.Username == "" {
		t.Fatalf("unexpected roulette after likes: %+v", rl)
	}

	_, env = s.do(t, "GET", "/likes", fanTok, nil)
	var ids []string
	decode(t, env.Data, &ids)
	if len(ids) != 1 || ids[0] != rid {
		t.Fatalf("unexpected liked ids: %v", ids)
	}

	if rr, _ := s.do(t, "DELETE", "/likes/"+rid, fanTok, nil); rr.Code != http.StatusOK {
		t.Fatalf("unlike: expected 200, got %d", rr.Code)
	}
	if rr, _ := s.do(t, "POST", "/likes/missing", fanTok, nil); rr.Code != http.StatusNotFound {
		t.Fatalf("like missing roulette: expected 404, got %d", rr.Code)
	}

	rr, _ := s.do(t, "POST", "/social-links", fanTok, map[string]interface{}{"platform": "twitch", "url": "https://twitch.tv/fan"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create link: expected 201, got %d (%s)", rr.Code, rr.Body.String())
	}
	rr, env = s.do(t, "GET", "/users/"+fanID, "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("public profile: expected 200, got %d", rr.Code)
	}
	if strings.Contains(string(env.Data), "fan@example.com") {
		t.Fatalf("public profile leaks email: %s", string(env.Data))
	}
	var pub struct {
		SocialLinks []struct {
			Platform string `json:"platform"`
		} `json:"socialLinks"`
	}
	decode(t, env.Data, &pub)
	if len(pub.SocialLinks) != 1 || pub.SocialLinks[0].Platform != "Twitch" {
		t.Fatalf("unexpected public links: %+v", pub)
	}

	rr, _ = s.do(t, "PUT", "/users/me/avatar", fanTok, nil)
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("avatar without storage: expected 503, got %d", rr.Code)
	}
}

func TestRoulettesDoNotExposeCreatorEmail(t *testing.T) {
	s := newTestServer(t)
	const email = "secret.creator@example.com"
	creatorTok, _ := s.register(t, email, "creator")
	fanTok, _ := s.register(t, "fan@example.com", "user")
	rid := s.createRoulette(t, creatorTok)

	rr, _ := s.do(t, "POST", "/wins", fanTok, map[string]interface{}{
		"rouletteId": rid,
		"prize":      map[string]interface{}{"id": "b", "text": "Poster"},
	})
	if rr.Code != http.StatusCreated && rr.Code != http.StatusOK {
		t.Fatalf("record win: status %d (%s)", rr.Code, rr.Body.String())
	}

	for _, c := range []struct{ path, token string }{
		{"/roulettes", ""},
		{"/roulettes/" + rid, ""},
		{"/roulettes/my", creatorTok},
		{"/wins", fanTok},
	} {
		rr, env := s.do(t, "GET", c.path, c.token, nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("GET %s: expected 200, got %d", c.path, rr.Code)
		}
		if strings.Contains(rr.Body.String(), email) || strings.Contains(rr.Body.String(), `"email"`) {
			t.Fatalf("GET %s leaks creator email: %s", c.path, rr.Body.String())
		}
		if c.path != "/roulettes/my" && !strings.Contains(string(env.Data), `"username":"user-secret.creator"`) {
			t.Fatalf("GET %s should still show the creator's username: %s", c.path, string(env.Data))
		}
	}
}

func TestRecordWinRejectsForeignPrize(t *testing.T) {
	s := newTestServer(t)
	creatorTok, _ := s.register(t, "creator@example.com", "creator")
	fanTok, _ := s.register(t, "fan@example.com", "user")
	rid := s.createRoulette(t, creatorTok)

	rr, env := s.do(t, "POST", "/wins", fanTok, map[string]interface{}{
		"rouletteId": rid,
		"prize":      map[string]interface{}{"id": "jackpot", "text": "Car"},
	})
	if rr.Code != http.StatusBadRequest || env.Message != "Prize is not part of this roulette" {
		t.Fatalf("foreign prize: %d %+v", rr.Code, env)
	}
}

func TestUpdateRouletteClearsDescription(t *testing.T) {
	s := newTestServer(t)
	creatorTok, _ := s.register(t, "creator@example.com", "creator")
	rid := s.createRoulette(t, creatorTok)

	if rr, _ := s.do(t, "PUT", "/roulettes/"+rid, creatorTok, map[string]interface{}{"description": "Spring prizes"}); rr.Code != http.StatusOK {
		t.Fatalf("set description: expected 200, got %d", rr.Code)
	}
	if rr, _ := s.do(t, "PUT", "/roulettes/"+rid, creatorTok, map[string]interface{}{"description": ""}); rr.Code != http.StatusOK {
		t.Fatalf("clear description: expected 200, got %d", rr.Code)
	}
	_, env := s.do(t, "GET", "/roulettes/"+rid, "", nil)
	if strings.Contains(string(env.Data), `"description"`) {
		t.Fatalf("description should be cleared: %s", string(env.Data))
	}
}
