package utils

import "testing"

func TestPasswordHashAndCheck(t *testing.T) {
	hashed, err := HashPassword("hunter22")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hashed == "hunter22" {
		t.Fatal("password stored in plain text")
	}

	if !CheckPassword(hashed, "hunter22") {
		t.Fatal("correct password rejected")
	}
	if CheckPassword(hashed, "hunter23") {
		t.Fatal("wrong password accepted")
	}
}
