package validate_test

import (
	"testing"

	"github.com/andrianfauzi/warungku/pkg/validate"
)

type registerInput struct {
	Nama        string `json:"nama"         validate:"required,min=2,max=100"`
	Email       string `json:"email"        validate:"required,email"`
	Password    string `json:"password"     validate:"required,min=8"`
	PhoneNumber string `json:"phone_number" validate:"required"`
	Username    string `json:"username"     validate:"required"`
	UserLevel   int    `json:"user_level"   validate:"nullable,gte=1,lte=3"`
}

func TestValidInput(t *testing.T) {
	errs := validate.Struct(registerInput{
		Nama:        "Budi Santoso",
		Email:       "budi@example.com",
		Password:    "rahasia123",
		PhoneNumber: "0812345678",
		Username:    "budi",
		UserLevel:   2,
	})
	if validate.HasErrors(errs) {
		t.Errorf("expected no errors, got: %v", errs)
	}
}

func TestRequiredFails(t *testing.T) {
	errs := validate.Struct(registerInput{})
	if !validate.HasErrors(errs) {
		t.Fatal("expected required errors")
	}
	for _, field := range []string{"nama", "email", "password", "phone_number", "username"} {
		if _, ok := errs[field]; !ok {
			t.Errorf("expected %s to be required", field)
		}
	}
}

func TestEmailRule(t *testing.T) {
	type in struct {
		Email string `json:"email" validate:"required,email"`
	}
	if errs := validate.Struct(in{Email: "not-an-email"}); len(errs) == 0 {
		t.Error("expected email validation error")
	}
	if errs := validate.Struct(in{Email: "valid@example.com"}); len(errs) != 0 {
		t.Errorf("expected valid email to pass, got: %v", errs)
	}
}

func TestMinAppliesToStringsAndNumbers(t *testing.T) {
	type in struct {
		Password string  `json:"password" validate:"required,min=8"`
		Price    float64 `json:"price"    validate:"required,min=1"`
	}
	errs := validate.Struct(in{Password: "short", Price: 0.5})
	if _, ok := errs["password"]; !ok {
		t.Error("expected short password to fail")
	}
	if _, ok := errs["price"]; !ok {
		t.Error("expected price below minimum to fail")
	}
}

func TestNullableSkipsRules(t *testing.T) {
	type in struct {
		Alamat string `json:"alamat" validate:"nullable,min=5"`
	}
	if errs := validate.Struct(in{Alamat: ""}); len(errs) != 0 {
		t.Errorf("expected empty nullable to pass: %v", errs)
	}
	if errs := validate.Struct(in{Alamat: "ab"}); len(errs) == 0 {
		t.Error("expected too-short alamat to fail")
	}
}

func TestInRule(t *testing.T) {
	type in struct {
		Disk string `json:"disk" validate:"required,in=local,s3"`
	}
	if errs := validate.Struct(in{Disk: "gcs"}); len(errs) == 0 {
		t.Error("expected invalid disk to fail")
	}
	if errs := validate.Struct(in{Disk: "s3"}); len(errs) != 0 {
		t.Errorf("expected s3 to pass: %v", errs)
	}
}

func TestFirstFailingRuleWins(t *testing.T) {
	type in struct {
		Nama string `json:"nama" validate:"required,min=2"`
	}
	errs := validate.Struct(in{})
	if errs["nama"] != "The nama field is required." {
		t.Errorf("unexpected message: %q", errs["nama"])
	}
}
