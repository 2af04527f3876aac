package cmds

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-go-golems/teamchat/pkg/conversation"
	"github.com/go-go-golems/teamchat/pkg/personas"
	"github.com/go-go-golems/teamchat/pkg/store"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useFileStore(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chats.json")
	viper.Reset()
	viper.Set("store", "file")
	viper.Set("store-path", path)
	viper.Set("provider", "echo")
	t.Cleanup(viper.Reset)
	return path
}

func runCommand(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func seed(t *testing.T, path string, personaID string, contents ...string) {
	t.Helper()
	m, err := store.NewFileMedium(path)
	require.NoError(t, err)
	s := store.New(m)
	for _, c := range contents {
		s.AppendMessage(context.Background(), personaID, conversation.NewUserMessage(c))
	}
	require.NoError(t, s.Close())
}

func TestSendCommand(t *testing.T) {
	useFileStore(t)

	out, err := runCommand(t, NewSendCommand(), "--persona", "doctor", "--raw", "I", "have", "a", "headache")
	require.NoError(t, err)
	assert.Equal(t, "I have a headache\n", out)

	out, err = runCommand(t, NewHistoryCommand(), "doctor", "--output", "json")
	require.NoError(t, err)
	var got historyOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "doctor", got.PersonaID)
	assert.Equal(t, "I have a headache", got.Title)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, conversation.RoleAssistant, got.Messages[1].Role)
}

func TestSendCommand_UnknownPersona(t *testing.T) {
	useFileStore(t)
	_, err := runCommand(t, NewSendCommand(), "--persona", "plumber", "hello")
	assert.Error(t, err)
}

func TestHistoryCommand_Summaries(t *testing.T) {
	path := useFileStore(t)

	out, err := runCommand(t, NewHistoryCommand())
	require.NoError(t, err)
	assert.Contains(t, out, "No conversations yet.")

	seed(t, path, personas.DoctorID, "I have a headache", "still there")
	seed(t, path, personas.MrMeanID, "hi")

	out, err = runCommand(t, NewHistoryCommand())
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "doctor")
	assert.Contains(t, lines[1], "I have a headache")
	assert.Contains(t, lines[2], "mr-mean")

	_, err = runCommand(t, NewHistoryCommand(), "researcher")
	assert.Error(t, err)

	_, err = runCommand(t, NewHistoryCommand(), "--output", "xml")
	assert.Error(t, err)
}

func TestClearCommand(t *testing.T) {
	path := useFileStore(t)
	seed(t, path, personas.DoctorID, "a")
	seed(t, path, personas.LifeCoachID, "b")

	_, err := runCommand(t, NewClearCommand())
	assert.Error(t, err)

	out, err := runCommand(t, NewClearCommand(), "doctor")
	require.NoError(t, err)
	assert.Contains(t, out, "doctor")

	m, err := store.NewFileMedium(path)
	require.NoError(t, err)
	assert.Equal(t, []string{personas.LifeCoachID}, store.New(m).ListPersonasWithHistory(context.Background()))

	_, err = runCommand(t, NewClearCommand(), "--all")
	require.NoError(t, err)
	assert.Empty(t, store.New(m).ListPersonasWithHistory(context.Background()))
}

func TestPersonasCommand(t *testing.T) {
	useFileStore(t)

	out, err := runCommand(t, NewPersonasCommand())
	require.NoError(t, err)
	for _, id := range personas.Default().IDs() {
		assert.Contains(t, out, id)
	}

	out, err = runCommand(t, NewPersonasCommand(), "--output", "json")
	require.NoError(t, err)
	var list []personas.Persona
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	assert.Len(t, list, 6)
}
