package user

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func TestMakeHash(t *testing.T) {
	sum := func(b []byte) string {
		h := sha256.Sum256(b)
		return hex.EncodeToString(h[:])
	}
	tests := []struct {
		name string
		text string
		salt string
		want string
	}{
		{name: "hex salt is decoded", text: "pwd", salt: "00ff", want: sum([]byte{0x00, 0xff, 'p', 'w', 'd'})},
		{name: "non-hex salt is used as text", text: "pwd", salt: "zz", want: sum([]byte("zzpwd"))},
		{name: "odd hex length is used as text", text: "a", salt: "abc", want: sum([]byte("abca"))},
		{name: "empty salt", text: "a", salt: "", want: sum([]byte("a"))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MakeHash(tt.text, tt.salt); got != tt.want {
				t.Errorf("MakeHash() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMakeSalt(t *testing.T) {
	a, err := MakeSalt()
	if err != nil {
		t.Fatalf("MakeSalt() error = %v", err)
	}
	b, _ := MakeSalt()
	if len(a) != 32 {
		t.Errorf("len(MakeSalt()) = %d, want 32", len(a))
	}
	if _, err := hex.DecodeString(a); err != nil {
		t.Errorf("MakeSalt() is not hex: %v", err)
	}
	if a == b {
		t.Error("MakeSalt() returned the same salt twice")
	}
}

func TestUser_CheckPassword(t *testing.T) {
	var usr User
	if err := usr.SetPassword("secret99"); err != nil {
		t.Fatalf("SetPassword() error = %v", err)
	}
	tests := []struct {
		name    string
		pwd     string
		wantErr error
	}{
		{name: "right", pwd: "secret99"},
		{name: "wrong", pwd: "secret98", wantErr: ErrWrongPassword},
		{name: "empty", pwd: "", wantErr: ErrWrongPassword},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := usr.CheckPassword(tt.pwd); err != tt.wantErr {
				t.Errorf("CheckPassword() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestUser_CheckAnswer(t *testing.T) {
	var usr User
	if err := usr.SetAnswer(SecurityQuestions[4], " Paris "); err != nil {
		t.Fatalf("SetAnswer() error = %v", err)
	}
	if usr.Question != SecurityQuestions[4] {
		t.Errorf("Question = %v", usr.Question)
	}
	if err := usr.CheckAnswer("Paris"); err != nil {
		t.Errorf("CheckAnswer(Paris) error = %v", err)
	}
	if err := usr.CheckAnswer("paris"); err != ErrWrongAnswer {
		t.Errorf("CheckAnswer(paris) error = %v, wantErr %v", err, ErrWrongAnswer)
	}
}
