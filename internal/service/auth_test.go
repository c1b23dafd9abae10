package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Omjadhav321/bhaskar-solar-platform/internal/domain"
	"github.com/Omjadhav321/bhaskar-solar-platform/internal/repository"
	"github.com/Omjadhav321/bhaskar-solar-platform/internal/service"
)

func newAuthService(t *testing.T) (*service.AuthService, *repository.Repos) {
	t.Helper()
	repos := newTestRepos(t)
	svc := service.NewAuthService(
		repos.Users, repos.Customers, repos.Session,
		"test-secret", time.Hour, zap.NewNop(),
	)
	return svc, repos
}

func TestVendorRegisterAndLogin(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	vendor, err := svc.RegisterVendor(ctx, "Bhaskar Solar", "9000000001", "Pune", "secret")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if vendor.Type != domain.UserTypeVendor {
		t.Errorf("type = %s", vendor.Type)
	}

	result, err := svc.VendorLogin(ctx, "9000000001", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.User.ID != vendor.ID {
		t.Error("login returned a different user")
	}
	if result.AccessToken == "" {
		t.Error("login should mint a token")
	}
	if result.Session.UserID != vendor.ID {
		t.Errorf("session user = %s", result.Session.UserID)
	}

	// Token round trip.
	userID, userType, err := svc.ParseAccessToken(result.AccessToken)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if userID != vendor.ID || userType != domain.UserTypeVendor {
		t.Errorf("token claims = %s, %s", userID, userType)
	}
}

func TestVendorLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	svc.RegisterVendor(ctx, "Bhaskar Solar", "9000000001", "Pune", "secret")

	_, err := svc.VendorLogin(ctx, "9000000001", "wrong")
	var unauthorized *domain.ErrUnauthorized
	if !errors.As(err, &unauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}

	if _, err := svc.VendorLogin(ctx, "9999999999", "secret"); err == nil {
		t.Error("unknown phone should be rejected")
	}
}

func TestRegisterVendorValidation(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	cases := []struct {
		name, phone, password string
	}{
		{"", "9000000001", "pw"},
		{"V", "12345", "pw"},
		{"V", "9000000001", ""},
	}
	for _, tc := range cases {
		if _, err := svc.RegisterVendor(ctx, tc.name, tc.phone, "", tc.password); err == nil {
			t.Errorf("register(%q, %q, %q) should fail", tc.name, tc.phone, tc.password)
		}
	}
}

func TestCustomerLoginEnrollsUnknownCode(t *testing.T) {
	svc, repos := newAuthService(t)
	ctx := context.Background()

	vendor, _ := svc.RegisterVendor(ctx, "Bhaskar Solar", "9000000001", "Pune", "secret")

	result, err := svc.CustomerLogin(ctx, "bsv-temp-7842", "9111111111", "")
	if err != nil {
		t.Fatalf("customer login: %v", err)
	}

	if result.User.Type != domain.UserTypeCustomer {
		t.Errorf("user type = %s", result.User.Type)
	}
	if result.User.Password != "customer" {
		t.Error("enrolled accounts get the default password")
	}

	customer, ok := repos.Customers.GetByID(result.User.CustomerID)
	if !ok {
		t.Fatal("enrolled customer record missing")
	}
	if customer.VendorID != vendor.ID {
		t.Error("enrollment should attach to the first registered vendor")
	}
	// Name carries the last 4 characters of the entered (uppercased) code.
	if customer.Name != "Customer 7842" {
		t.Errorf("name = %s", customer.Name)
	}
	if customer.Address != "Not provided" {
		t.Errorf("address = %s", customer.Address)
	}
	// Enrollment issues a fresh sequential code, not the entered one.
	wantCode := fmt.Sprintf("BSV-%d-0001", time.Now().Year())
	if customer.AppCode != wantCode {
		t.Errorf("app code = %s, want %s", customer.AppCode, wantCode)
	}
}

func TestCustomerLoginWithKnownCodeReusesCustomer(t *testing.T) {
	svc, repos := newAuthService(t)
	ctx := context.Background()

	vendor, _ := svc.RegisterVendor(ctx, "Bhaskar Solar", "9000000001", "Pune", "secret")
	customer, err := repos.Customers.Create(ctx, domain.NewCustomer{
		VendorID: vendor.ID, Name: "Asha Patil", Phone: "9111111111", Address: "Nashik",
	})
	if err != nil {
		t.Fatalf("create customer: %v", err)
	}

	result, err := svc.CustomerLogin(ctx, customer.AppCode, "9111111111", "")
	if err != nil {
		t.Fatalf("customer login: %v", err)
	}
	if result.User.CustomerID != customer.ID {
		t.Error("login should link to the existing customer")
	}
	if got := repos.Customers.GetAll(); len(got) != 1 {
		t.Errorf("customers = %d, want 1 (no duplicate enrollment)", len(got))
	}

	// Second login with the same phone reuses the user account.
	again, err := svc.CustomerLogin(ctx, customer.AppCode, "9111111111", "")
	if err != nil {
		t.Fatalf("second login: %v", err)
	}
	if again.User.ID != result.User.ID {
		t.Error("repeat login should reuse the user account")
	}
}

func TestCustomerLoginRequiresAVendor(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.CustomerLogin(context.Background(), "BSV-2026-0001", "9111111111", "")
	var validation *domain.ErrValidation
	if !errors.As(err, &validation) {
		t.Errorf("expected ErrValidation with no vendors, got %v", err)
	}
}

func TestSessionLifecycleThroughAuth(t *testing.T) {
	svc, repos := newAuthService(t)
	ctx := context.Background()

	vendor, _ := svc.RegisterVendor(ctx, "Bhaskar Solar", "9000000001", "Pune", "secret")
	svc.VendorLogin(ctx, "9000000001", "secret")

	session, ok := svc.CurrentSession(ctx)
	if !ok || session.UserID != vendor.ID {
		t.Fatalf("current session = %+v, %v", session, ok)
	}

	svc.Logout(ctx)
	if _, ok := svc.CurrentSession(ctx); ok {
		t.Error("session should be gone after logout")
	}

	// A session whose user has been deleted is cleared on access.
	svc.VendorLogin(ctx, "9000000001", "secret")
	repos.Users.Delete(vendor.ID)
	if _, ok := svc.CurrentSession(ctx); ok {
		t.Error("session pointing at a deleted user must be invalidated")
	}
	if repos.Session.IsLoggedIn() {
		t.Error("stale session should be destroyed, not just hidden")
	}
}

func TestParseAccessTokenRejectsForeignSignature(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	if _, _, err := svc.ParseAccessToken("not-a-token"); err == nil {
		t.Error("garbage token should be rejected")
	}

	svc.RegisterVendor(ctx, "Bhaskar Solar", "9000000001", "Pune", "secret")
	result, err := svc.VendorLogin(ctx, "9000000001", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	other := service.NewAuthService(nil, nil, nil, "other-secret", time.Hour, zap.NewNop())
	if _, _, err := other.ParseAccessToken(result.AccessToken); err == nil {
		t.Error("token signed with a different secret should be rejected")
	}
}
