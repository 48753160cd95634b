package service_test

import (
	"errors"
	"testing"
	"time"

	"stockbook/internal/model"
	"stockbook/internal/service"

	"github.com/golang-jwt/jwt/v5"
)

func TestUserLoginIssuesToken(t *testing.T) {
	f := newFixture(t)
	secret := []byte("test-secret")
	svc := service.NewUserService(f.repos.Users, secret, time.Hour)

	created, err := svc.EnsureAdmin(f.ctx, "admin", "admin123")
	if err != nil || !created {
		t.Fatalf("EnsureAdmin = %v, %v", created, err)
	}
	again, err := svc.EnsureAdmin(f.ctx, "admin", "admin123")
	if err != nil || again {
		t.Errorf("second EnsureAdmin = %v, %v", again, err)
	}

	res, err := svc.Login(f.ctx, service.LoginUserRequest{Username: "admin", Password: "admin123"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	token, err := jwt.Parse(res.Token, func(*jwt.Token) (any, error) { return secret, nil })
	if err != nil || !token.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	claims := token.Claims.(jwt.MapClaims)
	if claims["role"] != model.RoleAdmin || claims["sub"] != res.User.ID.String() {
		t.Errorf("claims = %v", claims)
	}

	if _, err := svc.Login(f.ctx, service.LoginUserRequest{Username: "admin", Password: "wrong"}); !errors.Is(err, service.ErrUnauthorized) {
		t.Errorf("wrong password err = %v", err)
	}
	if _, err := svc.CreateUser(f.ctx, service.CreateUserRequest{Username: "admin", Password: "x", FullName: "x", Role: model.RoleStaff}); !errors.Is(err, service.ErrConflict) {
		t.Errorf("duplicate username err = %v", err)
	}
}

func TestAuditLogsResolveUsernames(t *testing.T) {
	f := newFixture(t)
	users := service.NewUserService(f.repos.Users, []byte("s"), time.Hour)
	u, err := users.CreateUser(f.ctx, service.CreateUserRequest{Username: "meera", Password: "secret1", FullName: "Meera", Role: model.RoleManager})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	products := f.productService()
	if _, err := products.CreateProduct(f.ctx, u.ID.String(), service.CreateProductRequest{Name: "Tea", SKU: "TEA", Category: "Grocery"}); err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	if _, err := products.CreateProduct(f.ctx, "", service.CreateProductRequest{Name: "Salt", SKU: "SALT", Category: "Grocery"}); err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}

	logs, total, err := service.NewAuditService(f.repos.Audit, f.repos.Users).GetAuditLogs(f.ctx, service.AuditLogQuery{Page: 1, Limit: 10})
	if err != nil || total != 2 {
		t.Fatalf("GetAuditLogs = %d, %v", total, err)
	}
	names := map[string]bool{}
	for _, l := range logs {
		names[l.Username] = true
	}
	if !names["meera"] || !names["System"] {
		t.Errorf("usernames = %v, want meera and System", names)
	}
}

func TestAuditLogFilters(t *testing.T) {
	f := newFixture(t)
	users := service.NewUserService(f.repos.Users, []byte("s"), time.Hour)
	u, err := users.CreateUser(f.ctx, service.CreateUserRequest{Username: "ravi", Password: "secret1", FullName: "Ravi", Role: model.RoleManager})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	products := f.productService()
	tea, err := products.CreateProduct(f.ctx, u.ID.String(), service.CreateProductRequest{Name: "Tea", SKU: "TEA", Category: "Grocery"})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	if _, err := products.CreateProduct(f.ctx, "", service.CreateProductRequest{Name: "Salt", SKU: "SALT", Category: "Grocery"}); err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}

	audit := service.NewAuditService(f.repos.Audit, f.repos.Users)
	tests := []struct {
		name  string
		query service.AuditLogQuery
		want  int64
	}{
		{"all", service.AuditLogQuery{}, 2},
		{"by user", service.AuditLogQuery{UserID: u.ID.String()}, 1},
		{"by entity", service.AuditLogQuery{EntityID: tea.ID.String()}, 1},
		{"action case-insensitive", service.AuditLogQuery{Action: "create_product"}, 2},
		{"other action", service.AuditLogQuery{Action: model.ActionRecordPayment}, 0},
		{"recent", service.AuditLogQuery{Days: 1}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, total, err := audit.GetAuditLogs(f.ctx, tt.query)
			if err != nil {
				t.Fatalf("GetAuditLogs: %v", err)
			}
			if total != tt.want {
				t.Errorf("total = %d, want %d", total, tt.want)
			}
		})
	}

	if _, _, err := audit.GetAuditLogs(f.ctx, service.AuditLogQuery{UserID: "nope"}); !errors.Is(err, service.ErrValidation) {
		t.Errorf("bad user id err = %v, want validation", err)
	}
}
