package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestActorFromContext(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("user identity", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		userID := primitive.NewObjectID()
		c.Set("userId", userID)
		c.Set("role", "customer")

		actor, ok := actorFromContext(c)
		if !ok {
			t.Fatal("expected actor from user context")
		}
		if actor.ID != userID || actor.Admin {
			t.Fatalf("unexpected actor: %+v", actor)
		}
	})

	t.Run("admin identity", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		userID := primitive.NewObjectID()
		c.Set("userId", userID)
		c.Set("role", "admin")

		actor, ok := actorFromContext(c)
		if !ok || !actor.Admin {
			t.Fatalf("expected admin actor, got %+v ok=%v", actor, ok)
		}
	})

	t.Run("admin token without userId", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Set("role", "admin")

		actor, ok := actorFromContext(c)
		if !ok || !actor.Admin {
			t.Fatalf("expected admin actor from role claim, got %+v ok=%v", actor, ok)
		}
	})

	t.Run("no identity", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())

		if _, ok := actorFromContext(c); ok {
			t.Fatal("expected no actor from empty context")
		}
	})
}

func TestParsePaginationParams(t *testing.T) {
	page, limit, err := parsePaginationParams("2", "50")
	if err != nil || page != 2 || limit != 50 {
		t.Fatalf("unexpected result: page=%d limit=%d err=%v", page, limit, err)
	}

	page, limit, err = parsePaginationParams("", "")
	if err != nil || page != 1 || limit != 20 {
		t.Fatalf("expected defaults, got page=%d limit=%d err=%v", page, limit, err)
	}

	for _, bad := range [][2]string{{"0", "10"}, {"x", "10"}, {"1", "-5"}} {
		if _, _, err := parsePaginationParams(bad[0], bad[1]); err == nil {
			t.Fatalf("expected error for page=%q limit=%q", bad[0], bad[1])
		}
	}
}
