package commands

import (
	"bytes"
	"dm-lab/auth"
	"dm-lab/domain"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--db", dir}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestToken_Is_Accepted_By_The_Verifier(t *testing.T) {
	req := require.New(t)
	t.Setenv("DMCTL_JWT_SECRET", "dmctl_secret_for_tests")

	out, err := execute(t, t.TempDir(), "token", "42")
	req.NoError(err)

	user, err := auth.NewVerifier("dmctl_secret_for_tests", "").VerifyToken(string(bytes.TrimSpace([]byte(out))))
	req.NoError(err)
	req.Equal(domain.UserID(42), user)
}

func TestToken_Requires_A_Secret(t *testing.T) {
	_, err := execute(t, t.TempDir(), "token", "42")
	require.ErrorContains(t, err, "DMCTL_JWT_SECRET")
}

func TestModeration_Round_Trip(t *testing.T) {
	req := require.New(t)
	dir := t.TempDir()

	// Given a block and a report
	_, err := execute(t, dir, "block", "1", "2")
	req.NoError(err)
	_, err = execute(t, dir, "block", "1", "2")
	req.ErrorContains(err, "already blocked")
	out, err := execute(t, dir, "report", "1", "3", "--reason", "spam")
	req.NoError(err)
	id := regexp.MustCompile(`[0-9a-f-]{36}`).FindString(out)
	req.NotEmpty(id)

	// Then both are listed
	out, err = execute(t, dir, "blocks", "1")
	req.NoError(err)
	req.Contains(out, "2")
	out, err = execute(t, dir, "reports", "1")
	req.NoError(err)
	req.Contains(out, id)
	req.Contains(out, "pending")

	// When the report is dismissed, it cannot be reopened
	_, err = execute(t, dir, "resolve-report", id, "--status", "dismissed")
	req.NoError(err)
	_, err = execute(t, dir, "resolve-report", id)
	req.ErrorContains(err, "no longer pending")

	_, err = execute(t, dir, "unblock", "1", "2")
	req.NoError(err)
	_, err = execute(t, dir, "unblock", "1", "2")
	req.ErrorContains(err, "not found")
}

func TestProfile_And_Keys(t *testing.T) {
	req := require.New(t)
	dir := t.TempDir()

	out, err := execute(t, dir, "profile", "get", "7")
	req.NoError(err)
	req.Contains(out, "Unknown")

	_, err = execute(t, dir, "profile", "set", "7", "--name", "Grace", "--image", "https://img/grace.png")
	req.NoError(err)
	out, err = execute(t, dir, "profile", "get", "7")
	req.NoError(err)
	req.Contains(out, "Grace")

	out, err = execute(t, dir, "keys", "--prefix", "profile:")
	req.NoError(err)
	req.Contains(out, "profile:")
	req.Contains(out, "1 keys")
}

func TestWithdraw_And_Rooms(t *testing.T) {
	req := require.New(t)
	dir := t.TempDir()

	out, err := execute(t, dir, "rooms", "5")
	req.NoError(err)
	req.Contains(out, "No room for user 5")

	_, err = execute(t, dir, "block", "5", "6")
	req.NoError(err)
	out, err = execute(t, dir, "withdraw", "5")
	req.NoError(err)
	req.Contains(out, "0 rooms, 0 messages, 1 moderation edges deleted")

	_, err = execute(t, dir, "rooms", "nope")
	req.ErrorContains(err, "malformed identifier")
}
