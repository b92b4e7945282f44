package generic

import (
	"context"
	"testing"

	"github.com/JamesNgai/qtbot/platform"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	messages []discord.MessageCreate
	deleted  []snowflake.ID
}

func (r *recordingSender) Send(_ snowflake.ID, message discord.MessageCreate) error {
	r.messages = append(r.messages, message)
	return nil
}

func (r *recordingSender) Delete(_, messageID snowflake.ID) error {
	r.deleted = append(r.deleted, messageID)
	return nil
}

func testContext(sender *recordingSender, argText string) *platform.Context {
	return &platform.Context{
		Context:    context.Background(),
		ChannelID:  snowflake.ID(7),
		MessageID:  snowflake.ID(55),
		AuthorID:   snowflake.ID(100),
		AuthorName: "alice",
		ArgText:    argText,
		Sender:     sender,
	}
}

func fixedCog(choice int) *Cog {
	return &Cog{pick: func(int) int { return choice }}
}

func TestSayDeletesThenEchoes(t *testing.T) {
	cog := fixedCog(0)
	sender := &recordingSender{}

	require.NoError(t, cog.say(testContext(sender, "hello there")))
	require.Len(t, sender.messages, 1)
	assert.Equal(t, "hello there", sender.messages[0].Content)
	assert.Equal(t, []snowflake.ID{55}, sender.deleted)
}

func TestSayNeedsText(t *testing.T) {
	cog := fixedCog(0)
	sender := &recordingSender{}

	require.NoError(t, cog.say(testContext(sender, "")))
	assert.Contains(t, sender.messages[0].Content, "something to say")
	assert.Empty(t, sender.deleted)
}

func TestBallPicksResponse(t *testing.T) {
	cog := fixedCog(2)
	sender := &recordingSender{}

	require.NoError(t, cog.ball(testContext(sender, "")))
	assert.Equal(t, "Without a doubt", sender.messages[0].Content)
}

func TestSlap(t *testing.T) {
	cog := fixedCog(0)
	sender := &recordingSender{}

	require.NoError(t, cog.slap(testContext(sender, "bob")))
	assert.Equal(t, "alice slaps bob around a bit with a large trout.", sender.messages[0].Content)

	require.NoError(t, cog.slap(testContext(sender, "")))
	assert.Equal(t, "You can't slap nothing.", sender.messages[1].Content)
}

func TestLove(t *testing.T) {
	cog := fixedCog(0)
	sender := &recordingSender{}

	require.NoError(t, cog.love(testContext(sender, "")))
	assert.Equal(t, "alice loves ... nothing", sender.messages[0].Content)

	require.NoError(t, cog.love(testContext(sender, "bob")))
	assert.Equal(t, "alice gives bob some good ol' fashioned lovin'", sender.messages[1].Content)
}
