package userfile

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/edutrack/core/user"
	"github.com/trezcool/edutrack/tests"
)

func openDB(t *testing.T, content string) (*DB, string, *testutil.Logger) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "userdata.bin")
	if content != "" {
		testutil.WriteFile(t, dir, "userdata.bin", content)
	}
	logger := testutil.NewLogger()
	db, err := Open(path, logger)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	return db, path, logger
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want     user.User
		wantLine string
		wantErr  error
	}{
		{
			name:     "canonical",
			line:     "alice:student:s1:h1:What is your favorite book?:s2:h2",
			want:     user.User{Username: "alice", Role: "student", Salt: "s1", PasswordHash: "h1", Question: "What is your favorite book?", AnswerSalt: "s2", AnswerHash: "h2"},
			wantLine: "alice:student:s1:h1:What is your favorite book?:s2:h2",
		},
		{
			name:     "role at field 3",
			line:     "alice:s1:h1:teacher:q:s2:h2",
			want:     user.User{Username: "alice", Role: "teacher", Salt: "s1", PasswordHash: "h1", Question: "q", AnswerSalt: "s2", AnswerHash: "h2"},
			wantLine: "alice:teacher:s1:h1:q:s2:h2",
		},
		{name: "no role", line: "alice:s1:h1:x:q:s2:h2", wantErr: ErrMissingRole},
		{name: "too few fields", line: "alice:student:s1", wantErr: ErrMalformedLine},
		{name: "too many fields", line: "a:student:b:c:d:e:f:g", wantErr: ErrMalformedLine},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLine(tt.line)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ParseLine() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLine() = %+v, want %+v", got, tt.want)
			}
			if err == nil && FormatLine(got) != tt.wantLine {
				t.Errorf("FormatLine() = %v, want %v", FormatLine(got), tt.wantLine)
			}
		})
	}
}

func TestOpen_readsBothLayouts(t *testing.T) {
	db, _, logger := openDB(t, strings.Join([]string{
		"alice:student:s:h:q:as:ah",
		"",
		"bob:s:h:teacher:q:as:ah",
		"broken",
		"carol:admin:s:h:q:as:ah",
		"dave:s:h:x:q:as:ah",
		"alice:teacher:s:h:q:as:ah",
	}, "\n"))

	users, err := NewUserRepository(db).QueryAllUsers()
	if err != nil {
		t.Fatalf("QueryAllUsers() failed: %v", err)
	}
	names := make([]string, 0, len(users))
	for _, u := range users {
		names = append(names, u.Username)
	}
	assert.Equal(t, []string{"alice", "bob", "carol"}, names)
	if users[0].Role != user.RoleStudent {
		t.Errorf("first line should win, got role %v", users[0].Role)
	}
	if users[1].Role != user.RoleTeacher || users[1].Salt != "s" {
		t.Errorf("reordered line = %+v", users[1])
	}
	if n := logger.Count("warn"); n != 2 {
		t.Errorf("warnings = %d, want 2", n)
	}
}

func TestUserRepository_keepsUnparsedLines(t *testing.T) {
	db, path, _ := openDB(t, strings.Join([]string{
		"bob:s1:h1:teacher:q:s2:h2",
		"dave:s3:h3:x:q:s4:h4",
		"broken",
	}, "\n"))
	repo := NewUserRepository(db)

	testutil.CreateUser(t, repo, "alice", user.RoleStudent, "secret99")

	lines := strings.Split(strings.TrimSpace(testutil.ReadFile(t, path)), "\n")
	if len(lines) != 4 {
		t.Fatalf("file content = %v", lines)
	}
	assert.Equal(t, "bob:teacher:s1:h1:q:s2:h2", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "alice:student:"))
	assert.Equal(t, []string{"dave:s3:h3:x:q:s4:h4", "broken"}, lines[2:])

	res, err := Migrate(path, func(string) (string, error) { return user.RoleStudent, nil })
	if err != nil {
		t.Fatalf("Migrate() failed: %v", err)
	}
	want := MigrateResult{Canonical: 2, Resolved: 1, Skipped: 1}
	if res != want {
		t.Errorf("Migrate() = %+v, want %+v", res, want)
	}
}

func TestUserRepository(t *testing.T) {
	db, path, _ := openDB(t, "")
	repo := NewUserRepository(db)

	alice := testutil.CreateUser(t, repo, "alice", user.RoleStudent, "secret99")
	testutil.CreateUser(t, repo, "bob", user.RoleTeacher, "secret99")

	if _, err := repo.CreateUser(user.User{Username: "alice", Role: user.RoleAdmin}); err != user.ErrUsernameExists {
		t.Errorf("CreateUser() duplicate error = %v, wantErr %v", err, user.ErrUsernameExists)
	}
	if err := repo.CheckUsernameUniqueness("alice"); err != user.ErrUsernameExists {
		t.Errorf("CheckUsernameUniqueness() error = %v", err)
	}
	if err := repo.CheckUsernameUniqueness("zoe"); err != nil {
		t.Errorf("CheckUsernameUniqueness() error = %v", err)
	}

	alice.Role = user.RoleTeacher
	if _, err := repo.UpdateUser(alice); err != nil {
		t.Fatalf("UpdateUser() failed: %v", err)
	}
	if _, err := repo.UpdateUser(user.User{Username: "ghost"}); err != user.ErrNotFound {
		t.Errorf("UpdateUser() error = %v, wantErr %v", err, user.ErrNotFound)
	}
	if _, err := repo.GetUserByUsername("ghost"); err != user.ErrNotFound {
		t.Errorf("GetUserByUsername() error = %v, wantErr %v", err, user.ErrNotFound)
	}

	// every mutation is persisted
	lines := strings.Split(strings.TrimSpace(testutil.ReadFile(t, path)), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "alice:teacher:") || !strings.HasPrefix(lines[1], "bob:teacher:") {
		t.Errorf("file content = %v", lines)
	}

	reopened, err := Open(path, nil)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	got, err := NewUserRepository(reopened).GetUserByUsername("alice")
	if err != nil {
		t.Fatalf("GetUserByUsername() failed: %v", err)
	}
	if got != alice {
		t.Errorf("round trip = %+v, want %+v", got, alice)
	}
	if err := got.CheckPassword("secret99"); err != nil {
		t.Errorf("CheckPassword() after reload error = %v", err)
	}
}

func TestMigrate(t *testing.T) {
	content := strings.Join([]string{
		"alice:student:s1:h1:q:as:ah",
		"bob:s2:h2:teacher:q:as:ah",
		"carol:s3:h3:x:q:as:ah",
		"dave:s4:h4::q:as:ah",
		"broken:line",
		"",
	}, "\n")

	t.Run("rewrites canonically", func(t *testing.T) {
		_, path, _ := openDB(t, content)
		asked := map[string]bool{}
		resolve := func(uname string) (string, error) {
			asked[uname] = true
			if uname == "carol" {
				return user.RoleAdmin, nil
			}
			return user.RoleStudent, nil
		}

		res, err := Migrate(path, resolve)
		if err != nil {
			t.Fatalf("Migrate() failed: %v", err)
		}
		want := MigrateResult{Canonical: 1, Reordered: 1, Resolved: 2, Skipped: 1}
		if res != want {
			t.Errorf("Migrate() = %+v, want %+v", res, want)
		}
		assert.Equal(t, map[string]bool{"carol": true, "dave": true}, asked)

		got := testutil.ReadFile(t, path)
		wantContent := "alice:student:s1:h1:q:as:ah\n" +
			"bob:teacher:s2:h2:q:as:ah\n" +
			"carol:admin:s3:h3:q:as:ah\n" +
			"dave:student:s4:h4:q:as:ah\n"
		if got != wantContent {
			t.Errorf("Migrate() wrote\n%s\nwant\n%s", got, wantContent)
		}

		db, err := Open(path, nil)
		if err != nil {
			t.Fatalf("Open() failed: %v", err)
		}
		users, _ := NewUserRepository(db).QueryAllUsers()
		if len(users) != 4 {
			t.Errorf("users after migration = %d, want 4", len(users))
		}
	})

	t.Run("invalid resolved role", func(t *testing.T) {
		_, path, _ := openDB(t, content)
		_, err := Migrate(path, func(string) (string, error) { return "janitor", nil })
		if err == nil {
			t.Fatal("Migrate() should fail on an invalid role")
		}
		if got := testutil.ReadFile(t, path); got != content {
			t.Error("failed migration modified the file")
		}
	})

	t.Run("no file", func(t *testing.T) {
		_, err := Migrate(filepath.Join(t.TempDir(), "userdata.bin"), nil)
		if err != ErrNoUserData {
			t.Errorf("Migrate() error = %v, wantErr %v", err, ErrNoUserData)
		}
	})
}

func TestDB_Reload(t *testing.T) {
	db, path, _ := openDB(t, "alice:s:h::q:as:ah\n")
	repo := NewUserRepository(db)
	if _, err := repo.GetUserByUsername("alice"); err != user.ErrNotFound {
		t.Fatalf("line without a role should not load, error = %v", err)
	}
	if _, err := Migrate(path, func(string) (string, error) { return user.RoleStudent, nil }); err != nil {
		t.Fatalf("Migrate() failed: %v", err)
	}
	if err := db.Reload(); err != nil {
		t.Fatalf("Reload() failed: %v", err)
	}
	if _, err := repo.GetUserByUsername("alice"); err != nil {
		t.Errorf("GetUserByUsername() after Reload error = %v", err)
	}
}
