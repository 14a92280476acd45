package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool
	calls    []string
}

func (f *fakeExec) record(s string) error { f.calls = append(f.calls, s); return nil }

func (f *fakeExec) isLoggedIn() bool                   { return f.loggedIn }
func (f *fakeExec) Register(ctx context.Context) error { return f.record("register") }
func (f *fakeExec) Login(ctx context.Context) error {
	f.loggedIn = true
	return f.record("login")
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.loggedIn = false
	return f.record("logout")
}
func (f *fakeExec) List(ctx context.Context) error { return f.record("list") }
func (f *fakeExec) Show(ctx context.Context, args []string) error {
	return f.record("show " + strings.Join(args, " "))
}
func (f *fakeExec) Add(ctx context.Context) error { return f.record("add") }
func (f *fakeExec) Vote(ctx context.Context, args []string, like int) error {
	return f.record(fmt.Sprintf("vote %s %d", strings.Join(args, " "), like))
}
func (f *fakeExec) Delete(ctx context.Context, args []string) error {
	return f.record("delete " + strings.Join(args, " "))
}

func silence(t *testing.T) *[]string {
	t.Helper()
	var printed []string
	origPrint := printlnFn
	printlnFn = func(a ...any) (int, error) {
		printed = append(printed, fmt.Sprint(a...))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = origPrint })
	return &printed
}

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	silence(t)

	input := strings.Join([]string{
		"list",
		"login",
		"help",
		"l",
		"show s1",
		"add",
		"like s1",
		"dislike s1",
		"unvote s1",
		"delete s1",
		"",
		"foobar",
		"logout",
		"list",
		"exit",
		"register",
	}, "\n")

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "status" }, bufio.NewReader(strings.NewReader(input)))

	assert.Equal(t, []string{
		"login", "list", "show s1", "add",
		"vote s1 1", "vote s1 -1", "vote s1 0",
		"delete s1", "logout",
	}, exec.calls)
}

func TestRunREPL_QuitAndEOF(t *testing.T) {
	printed := silence(t)

	exec := &fakeExec{loggedIn: true}
	runREPL(context.Background(), exec, func() string { return "s" }, bufio.NewReader(strings.NewReader("quit\nlist\n")))
	assert.Empty(t, exec.calls)
	assert.Contains(t, *printed, "Bye!")

	exec = &fakeExec{loggedIn: true}
	runREPL(context.Background(), exec, func() string { return "s" }, bufio.NewReader(strings.NewReader("list")))
	assert.Equal(t, []string{"list"}, exec.calls, "last line without newline still runs")
}

func TestRunREPL_StopsWhenContextCanceled(t *testing.T) {
	silence(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exec := &fakeExec{loggedIn: true}
	runREPL(ctx, exec, func() string { return "" }, bufio.NewReader(strings.NewReader("list\n")))
	assert.Empty(t, exec.calls)
}
