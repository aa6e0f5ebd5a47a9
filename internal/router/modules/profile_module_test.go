package modules

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/reactivities/api/internal/application"
	"github.com/reactivities/api/internal/application/profiles"
	"github.com/reactivities/api/internal/container"
	handlers "github.com/reactivities/api/internal/interface/http"
	"github.com/reactivities/api/pkg/helpers"
	"github.com/reactivities/api/pkg/validation"
)

// mapRedisHook answers the redis commands the middleware chain issues
// from an in-memory session map, so no server connection is made.
type mapRedisHook struct {
	sessions map[string]map[string]string
}

func (h mapRedisHook) DialHook(next redis.DialHook) redis.DialHook { return next }

func (h mapRedisHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		h.answer(cmd)
		return nil
	}
}

func (h mapRedisHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		for _, cmd := range cmds {
			h.answer(cmd)
		}
		return nil
	}
}

func (h mapRedisHook) answer(cmd redis.Cmder) {
	switch c := cmd.(type) {
	case *redis.MapStringStringCmd: // HGETALL
		key, _ := c.Args()[1].(string)
		c.SetVal(h.sessions[key])
	case *redis.DurationCmd: // TTL
		c.SetVal(time.Minute)
	case *redis.Cmd: // rate-limit script
		c.SetVal(int64(1))
	default:
		cmd.SetErr(errors.New("unexpected redis command"))
	}
}

func newProfileRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwt := helpers.NewJWTManager("access-secret", "refresh-secret", time.Hour, 24*time.Hour)
	rdb := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	rdb.AddHook(mapRedisHook{sessions: map[string]map[string]string{
		"user:session:u1": {
			"user_id":      "u1",
			"display_name": "Bob",
			"email":        "bob@test.com",
			"sid":          "sid1",
		},
	}})
	container.SetRedis(rdb)
	container.SetJWT(jwt)

	m := application.NewMediator(validation.New())
	application.Register(m, func(ctx context.Context, q profiles.GetProfile) (profiles.Profile, error) {
		return profiles.Profile{ID: q.ProfileID, Following: q.UserID == "u1"}, nil
	})

	engine := gin.New()
	mod := NewProfileModule(handlers.NewProfileHandler(m, nil), jwt)
	mod.Register(engine.Group("/api"))
	return engine
}

func getProfile(t *testing.T, engine *gin.Engine, cookie string) profiles.Profile {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/profiles/u2", nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: "access_token", Value: cookie})
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Data profiles.Profile `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return resp.Data
}

func TestGetProfileResolvesSessionUser(t *testing.T) {
	engine := newProfileRouter(t)

	access, _, err := container.GetJWT().GenerateAccessToken("u1", "sid1")
	if err != nil {
		t.Fatalf("token: %v", err)
	}

	p := getProfile(t, engine, access)
	if !p.Following {
		t.Fatal("session user must be threaded into the profile read")
	}
}

func TestGetProfileAnonymousStaysAnonymous(t *testing.T) {
	engine := newProfileRouter(t)

	if p := getProfile(t, engine, ""); p.Following {
		t.Fatal("anonymous read must not carry a user")
	}
}

func TestGetProfileStaleSessionReadsAsAnonymous(t *testing.T) {
	engine := newProfileRouter(t)

	// Valid token whose sid no longer matches the stored session.
	access, _, err := container.GetJWT().GenerateAccessToken("u1", "old-sid")
	if err != nil {
		t.Fatalf("token: %v", err)
	}

	if p := getProfile(t, engine, access); p.Following {
		t.Fatal("stale session must not resolve a user")
	}
}
