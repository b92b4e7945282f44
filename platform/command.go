package platform

import (
	"context"
	"fmt"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
)

// Command is one invocable chat command. A command with Subcommands acts as
// a group: the first argument selects a subcommand, anything else falls
// through to the group's own Run.
type Command struct {
	Name        string
	Aliases     []string
	Description string
	// OwnerOnly restricts to the configured bot owner.
	OwnerOnly bool
	// AdminOnly restricts to guild administrators.
	AdminOnly bool
	// GuildOnly rejects direct messages.
	GuildOnly   bool
	Run         func(ctx *Context) error
	Subcommands []*Command
}

func (c *Command) matches(name string) bool {
	if strings.EqualFold(c.Name, name) {
		return true
	}
	for _, alias := range c.Aliases {
		if strings.EqualFold(alias, name) {
			return true
		}
	}
	return false
}

func (c *Command) subcommand(name string) *Command {
	for _, sub := range c.Subcommands {
		if sub.matches(name) {
			return sub
		}
	}
	return nil
}

// Sender is the outbound side of the messaging collaborator. The real one
// wraps the disgo rest client; tests plug in a recorder.
type Sender interface {
	Send(channelID snowflake.ID, message discord.MessageCreate) error
	Delete(channelID, messageID snowflake.ID) error
}

// Context carries one command invocation: who asked, from where, the parsed
// arguments and the reply channel.
type Context struct {
	context.Context

	Bot *Bot

	// GuildID is nil for direct messages.
	GuildID    *snowflake.ID
	ChannelID  snowflake.ID
	MessageID  snowflake.ID
	AuthorID   snowflake.ID
	AuthorName string
	IsAdmin    bool
	IsOwner    bool

	// Args are the whitespace separated tokens after the command name.
	Args []string
	// ArgText is the raw remainder after the command name, for commands
	// that want the whole line ("tag create name the rest is contents").
	ArgText string

	Sender Sender
}

func (c *Context) Reply(content string) error {
	return c.Sender.Send(c.ChannelID, discord.MessageCreate{Content: content})
}

func (c *Context) Replyf(format string, args ...any) error {
	return c.Reply(fmt.Sprintf(format, args...))
}

func (c *Context) ReplyEmbed(embed discord.Embed) error {
	return c.Sender.Send(c.ChannelID, discord.MessageCreate{Embeds: []discord.Embed{embed}})
}
