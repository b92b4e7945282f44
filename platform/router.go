package platform

import (
	"context"
	"strings"

	"github.com/JamesNgai/qtbot/logger/dlog"
	"github.com/JamesNgai/qtbot/telemetry"
	"github.com/disgoorg/snowflake/v2"
	"github.com/google/uuid"
)

// Message is the router's view of one inbound message, detached from the
// gateway event so dispatch is testable without a connection.
type Message struct {
	AuthorID   snowflake.ID
	AuthorName string
	FromBot    bool
	// GuildID is nil for direct messages.
	GuildID   *snowflake.ID
	ChannelID snowflake.ID
	MessageID snowflake.ID
	Content   string
	IsAdmin   bool
	IsOwner   bool
}

// Router resolves the accepted prefixes for a message's origin, strips the
// matched one, and dispatches the remainder to a loaded command.
type Router struct {
	Bot      *Bot
	Prefixes *PrefixRegistry
	Cogs     *CogRegistry
}

// Dispatch runs the matching command, if any, and reports whether one
// matched. Messages without a known prefix or command are ignored.
func (r *Router) Dispatch(ctx context.Context, msg Message, sender Sender) bool {
	if msg.FromBot {
		return false
	}

	rest, ok := stripPrefix(msg.Content, r.Prefixes.Resolve(msg.GuildID))
	if !ok {
		return false
	}
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return false
	}

	cmd, ok := r.Cogs.Command(fields[0])
	if !ok {
		return false
	}
	args := fields[1:]
	argText := remainder(rest)

	// group commands: first argument may select a subcommand, which
	// inherits the group's restrictions
	guildOnly, ownerOnly, adminOnly := cmd.GuildOnly, cmd.OwnerOnly, cmd.AdminOnly
	if len(cmd.Subcommands) > 0 && len(args) > 0 {
		if sub := cmd.subcommand(args[0]); sub != nil {
			cmd = sub
			args = args[1:]
			argText = remainder(argText)
			guildOnly = guildOnly || sub.GuildOnly
			ownerOnly = ownerOnly || sub.OwnerOnly
			adminOnly = adminOnly || sub.AdminOnly
		}
	}

	cctx := &Context{
		Context:    ctx,
		Bot:        r.Bot,
		GuildID:    msg.GuildID,
		ChannelID:  msg.ChannelID,
		MessageID:  msg.MessageID,
		AuthorID:   msg.AuthorID,
		AuthorName: msg.AuthorName,
		IsAdmin:    msg.IsAdmin,
		IsOwner:    msg.IsOwner,
		Args:       args,
		ArgText:    argText,
		Sender:     sender,
	}

	if guildOnly && cctx.GuildID == nil {
		_ = cctx.Reply("Sorry, that one only works in a server.")
		return true
	}
	if ownerOnly && !cctx.IsOwner {
		_ = cctx.Reply("Sorry, only my owner can do that.")
		return true
	}
	if adminOnly && !cctx.IsAdmin {
		_ = cctx.Reply("Sorry, you need to be an administrator for that.")
		return true
	}

	correlation := uuid.NewString()
	telemetry.HandledCommand(cmd.Name)
	if err := cmd.Run(cctx); err != nil {
		telemetry.CommandError(cmd.Name)
		dlog.Error("command failed", "command", cmd.Name, "correlation", correlation, "author", msg.AuthorID, "err", err)
		_ = cctx.Reply("Something went wrong, sorry about that.")
		return true
	}
	dlog.Debug("command handled", "command", cmd.Name, "correlation", correlation, "author", msg.AuthorID)
	return true
}

// stripPrefix removes the longest accepted prefix from content.
func stripPrefix(content string, prefixes []string) (string, bool) {
	best := -1
	for _, prefix := range prefixes {
		if strings.HasPrefix(content, prefix) && len(prefix) > best {
			best = len(prefix)
		}
	}
	if best < 0 {
		return "", false
	}
	return content[best:], true
}

// remainder drops the first whitespace separated token.
func remainder(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, " \t"); i >= 0 {
		return strings.TrimSpace(s[i:])
	}
	return ""
}
