package argparse

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var reasonOption = Option{Short: "r", Long: "reason", Help: "audit log reason"}

func banSpec() *CommandSpec {
	return &CommandSpec{
		Name:    "ban",
		Aliases: []string{"banir"},
		Help:    "ban users",
		Positionals: []Positional{
			{Name: "users", Help: "user IDs", Arity: OneOrMore},
		},
		Options: []Option{
			{Short: "d", Long: "delete-history", Type: TypeInt, Default: 0, Choices: []int{0, 1, 2, 3, 4, 5, 6, 7}},
		},
	}
}

func roleSpec() *CommandSpec {
	return &CommandSpec{
		Name:    "role",
		Aliases: []string{"cargo"},
		Help:    "toggle a role",
		Positionals: []Positional{
			{Name: "user", Help: "user ID, username or tag"},
			{Name: "role", Help: "role ID or name"},
		},
	}
}

func userSpec() *CommandSpec {
	return &CommandSpec{
		Name:               "user",
		Aliases:            []string{"u"},
		Prog:               "$user",
		Help:               "User commands.",
		Shared:             []Option{reasonOption},
		Subcommands:        []*CommandSpec{banSpec(), roleSpec()},
		SubcommandRequired: true,
	}
}

func requireParseError(t *testing.T, err error) *ParseError {
	t.Helper()
	require.Error(t, err)
	var perr *ParseError
	require.True(t, errors.As(err, &perr), "expected *ParseError, got %T", err)
	return perr
}

func TestParseWellFormed(t *testing.T) {
	parsed, err := Parse(`ban 123 456 -r "spam bot" -d 1`, userSpec())
	require.NoError(t, err)

	assert.Equal(t, "user", parsed.Command)
	assert.Equal(t, "ban", parsed.Subcommand)
	assert.Equal(t, "user ban", parsed.Path())
	assert.Equal(t, []string{"123", "456"}, parsed.Strings("users"))
	assert.Equal(t, "spam bot", parsed.String("reason"))
	assert.Equal(t, 1, parsed.Int("delete-history"))
	assert.True(t, parsed.Supplied("reason"))
	assert.True(t, parsed.Supplied("delete-history"))
}

func TestParseDefaults(t *testing.T) {
	parsed, err := Parse("ban 123", userSpec())
	require.NoError(t, err)

	assert.Equal(t, []string{"123"}, parsed.Strings("users"))
	assert.Equal(t, "", parsed.String("reason"))
	assert.Equal(t, 0, parsed.Int("delete-history"))
	assert.False(t, parsed.Supplied("reason"))
	assert.False(t, parsed.Supplied("delete-history"))
}

func TestParseOptionsBeforePositionals(t *testing.T) {
	parsed, err := Parse("ban --reason=raid -d 7 987", userSpec())
	require.NoError(t, err)

	assert.Equal(t, []string{"987"}, parsed.Strings("users"))
	assert.Equal(t, "raid", parsed.String("reason"))
	assert.Equal(t, 7, parsed.Int("delete-history"))
}

func TestParseIgnoresUnknownFlags(t *testing.T) {
	tests := []struct {
		name  string
		input string
		users []string
	}{
		{name: "long flag keeps next token", input: "ban 123 --bogus x", users: []string{"123", "x"}},
		{name: "trailing long flag", input: "ban 123 --bogus", users: []string{"123"}},
		{name: "short flag", input: "ban -z 123 456", users: []string{"123", "456"}},
		{name: "combined short flags", input: "ban -zq 123", users: []string{"123"}},
		{name: "inline value", input: "ban 123 --bogus=x 456", users: []string{"123", "456"}},
		{name: "after double dash", input: "ban 123 -- -z", users: []string{"123", "-z"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := Parse(tt.input, userSpec())
			require.NoError(t, err)
			assert.Equal(t, tt.users, parsed.Strings("users"))
			_, ok := parsed.Lookup("bogus")
			assert.False(t, ok)
		})
	}
}

func TestParseUnknownFlagKeepsKnownValues(t *testing.T) {
	parsed, err := Parse("ban -z -r why --bogus -d 3 111 222", userSpec())
	require.NoError(t, err)

	assert.Equal(t, []string{"111", "222"}, parsed.Strings("users"))
	assert.Equal(t, "why", parsed.String("reason"))
	assert.Equal(t, 3, parsed.Int("delete-history"))
}

func TestParseMissingRequiredPositional(t *testing.T) {
	_, err := Parse("ban -r nothing", userSpec())
	perr := requireParseError(t, err)

	assert.Contains(t, perr.Message, "the following arguments are required: users")
	assert.Contains(t, perr.Usage, "usage: $user ban [-h]")
	assert.Contains(t, perr.Error(), "error: the following arguments are required")
	assert.False(t, perr.IsHelp())
}

func TestParseMissingSecondPositional(t *testing.T) {
	_, err := Parse("role alice", userSpec())
	perr := requireParseError(t, err)
	assert.Contains(t, perr.Message, "required: role")
}

func TestParseInvalidChoice(t *testing.T) {
	_, err := Parse("ban 123 -d 9", userSpec())
	perr := requireParseError(t, err)
	assert.Contains(t, perr.Message, "argument -d/--delete-history: invalid choice: 9")
}

func TestParseInvalidOptionType(t *testing.T) {
	_, err := Parse("ban 123 -d soon", userSpec())
	perr := requireParseError(t, err)
	assert.Contains(t, perr.Message, "invalid argument")
}

func TestParseMissingOptionValue(t *testing.T) {
	_, err := Parse("ban 123 -d", userSpec())
	requireParseError(t, err)
}

func TestParseIntPositional(t *testing.T) {
	spec := &CommandSpec{
		Name: "purge",
		Positionals: []Positional{
			{Name: "count", Type: TypeInt},
		},
	}

	parsed, err := Parse("25", spec)
	require.NoError(t, err)
	assert.Equal(t, 25, parsed.Int("count"))

	_, err = Parse("lots", spec)
	perr := requireParseError(t, err)
	assert.Contains(t, perr.Message, "argument count: invalid int value: 'lots'")
}

func TestParseQuoting(t *testing.T) {
	parsed, err := Parse(`role "some user" new\ role -r 'it is #1'`, userSpec())
	require.NoError(t, err)

	assert.Equal(t, "some user", parsed.String("user"))
	assert.Equal(t, "new role", parsed.String("role"))
	assert.Equal(t, "it is #1", parsed.String("reason"))
}

func TestParseUnclosedQuote(t *testing.T) {
	_, err := Parse(`ban 123 -r "never closed`, userSpec())
	perr := requireParseError(t, err)
	assert.Equal(t, "no closing quotation", perr.Message)
	assert.Equal(t, userSpec().Usage(), perr.Usage)
}

func TestParseHelpFlag(t *testing.T) {
	_, err := Parse("ban --help", userSpec())
	perr := requireParseError(t, err)

	assert.True(t, perr.IsHelp())
	assert.Contains(t, perr.Usage, "positional arguments:")
	assert.Contains(t, perr.Usage, "--reason")
	assert.Contains(t, perr.Usage, "--delete-history")
	assert.Equal(t, perr.Usage, perr.Error())

	_, err = Parse("-h", userSpec())
	perr = requireParseError(t, err)
	assert.True(t, perr.IsHelp())
	assert.Contains(t, perr.Usage, "{ban,role}")
}

func TestParseSubcommandDispatch(t *testing.T) {
	parsed, err := Parse("banir 1 2 3", userSpec())
	require.NoError(t, err)
	assert.Equal(t, "ban", parsed.Subcommand)
	assert.Len(t, parsed.Strings("users"), 3)

	_, err = Parse("", userSpec())
	perr := requireParseError(t, err)
	assert.Contains(t, perr.Message, "required: subcommand")

	_, err = Parse("kick 123", userSpec())
	perr = requireParseError(t, err)
	assert.Contains(t, perr.Message, "invalid choice: 'kick'")
	assert.Contains(t, perr.Usage, "usage: $user [-h] {ban,role} ...")
}

func TestParseOptionalSubcommand(t *testing.T) {
	spec := userSpec()
	spec.SubcommandRequired = false

	parsed, err := Parse("whatever else", spec)
	require.NoError(t, err)
	assert.Equal(t, "", parsed.Subcommand)
	assert.Equal(t, []string{"whatever", "else"}, parsed.Extras)
}

func TestParseExtrasIgnored(t *testing.T) {
	parsed, err := Parse("role alice helper extra tokens", userSpec())
	require.NoError(t, err)
	assert.Equal(t, "alice", parsed.String("user"))
	assert.Equal(t, "helper", parsed.String("role"))
	assert.Equal(t, []string{"extra", "tokens"}, parsed.Extras)
}

func TestParseZeroOrMore(t *testing.T) {
	spec := &CommandSpec{
		Name:        "help",
		Positionals: []Positional{{Name: "command", Arity: ZeroOrMore}},
	}

	parsed, err := Parse("", spec)
	require.NoError(t, err)
	assert.Empty(t, parsed.Strings("command"))

	parsed, err = Parse("user ban", spec)
	require.NoError(t, err)
	assert.Equal(t, []string{"user", "ban"}, parsed.Strings("command"))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		spec *CommandSpec
	}{
		{name: "no name", spec: &CommandSpec{}},
		{name: "long shorthand", spec: &CommandSpec{Name: "x", Options: []Option{{Short: "ab", Long: "abc"}}}},
		{name: "reserved help", spec: &CommandSpec{Name: "x", Options: []Option{{Short: "h", Long: "host"}}}},
		{name: "choices on string", spec: &CommandSpec{Name: "x", Options: []Option{{Long: "mode", Choices: []int{1}}}}},
		{name: "default type mismatch", spec: &CommandSpec{Name: "x", Options: []Option{{Long: "n", Type: TypeInt, Default: "1"}}}},
		{name: "two variadics", spec: &CommandSpec{Name: "x", Positionals: []Positional{{Name: "a", Arity: OneOrMore}, {Name: "b", Arity: ZeroOrMore}}}},
		{name: "shared clash", spec: &CommandSpec{
			Name:        "x",
			Shared:      []Option{reasonOption},
			Subcommands: []*CommandSpec{{Name: "y", Options: []Option{{Short: "r", Long: "rate"}}}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.spec.Validate())
		})
	}

	assert.NoError(t, userSpec().Validate())
}

func TestRegistry(t *testing.T) {
	reg, err := NewRegistry("$", userSpec(), &CommandSpec{Name: "staff", Help: "Toggle the staff role."})
	require.NoError(t, err)

	spec, ok := reg.Lookup("u")
	require.True(t, ok)
	assert.Equal(t, "user", spec.Name)

	text, ok := reg.Help("ban")
	require.True(t, ok)
	assert.Contains(t, text, "usage: $user ban")

	text, ok = reg.Help("user", "cargo")
	require.True(t, ok)
	assert.Contains(t, text, "usage: $user role")

	text, ok = reg.Help("staff")
	require.True(t, ok)
	assert.Contains(t, text, "usage: $staff [-h]")

	_, ok = reg.Help("kick")
	assert.False(t, ok)

	assert.Equal(t, "staff", reg.Specs()[0].Name)
	assert.Equal(t, "user", reg.Specs()[1].Name)

	_, err = NewRegistry("$", userSpec(), &CommandSpec{Name: "u"})
	assert.Error(t, err, "alias clash should be rejected")
}
