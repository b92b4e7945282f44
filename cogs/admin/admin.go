// Package admin bundles the owner facing extension lifecycle commands plus
// guild prefix management and uptime.
package admin

import (
	"fmt"
	"strings"
	"time"

	"github.com/JamesNgai/qtbot/platform"
)

const timeLayout = "January 02 15:04:05"

type Cog struct {
	bot *platform.Bot
}

func New(b *platform.Bot) (platform.Cog, error) {
	return &Cog{bot: b}, nil
}

func (c *Cog) Name() string { return "admin" }

func (c *Cog) Commands() []*platform.Command {
	return []*platform.Command{
		{Name: "load", Description: "Loads an extension", OwnerOnly: true, Run: c.load},
		{Name: "unload", Description: "Unloads an extension", OwnerOnly: true, Run: c.unload},
		{Name: "reload", Aliases: []string{"r"}, Description: "Reloads an extension", OwnerOnly: true, Run: c.reload},
		{Name: "reload_all", Aliases: []string{"ra"}, Description: "Reloads all extensions", OwnerOnly: true, Run: c.reloadAll},
		{Name: "uptime", Aliases: []string{"up"}, Description: "Get current bot uptime", Run: c.uptime},
		{Name: "prefix", Description: "Show or change this guild's command prefix", AdminOnly: true, GuildOnly: true, Run: c.prefix},
	}
}

func extensionArg(ctx *platform.Context) (string, bool) {
	if len(ctx.Args) == 0 {
		return "", false
	}
	return strings.ToLower(ctx.Args[0]), true
}

func (c *Cog) load(ctx *platform.Context) error {
	name, ok := extensionArg(ctx)
	if !ok {
		return ctx.Reply("Usage: `load <extension>`.")
	}
	if err := c.bot.Cogs.Load(name); err != nil {
		return replyErrBlock(ctx, err)
	}
	return ctx.Replyf("Cog `%s` loaded successfully.", name)
}

func (c *Cog) unload(ctx *platform.Context) error {
	name, ok := extensionArg(ctx)
	if !ok {
		return ctx.Reply("Usage: `unload <extension>`.")
	}
	if name == platform.BootstrapCog {
		return ctx.Reply("Sorry, the admin cog cannot unload itself.")
	}
	if err := c.bot.Cogs.Unload(name); err != nil {
		return replyErrBlock(ctx, err)
	}
	return ctx.Replyf("Cog `%s` has been unloaded.", name)
}

func (c *Cog) reload(ctx *platform.Context) error {
	name, ok := extensionArg(ctx)
	if !ok {
		return ctx.Reply("Usage: `reload <extension>`.")
	}
	if err := c.bot.Cogs.Reload(name); err != nil {
		return replyErrBlock(ctx, err)
	}
	return ctx.Replyf("Cog `%s` has been reloaded.", name)
}

func (c *Cog) reloadAll(ctx *platform.Context) error {
	for _, outcome := range c.bot.Cogs.ReloadAll() {
		if outcome.Err != nil {
			return replyErrBlock(ctx, outcome.Err)
		}
	}
	return ctx.Reply("All cogs have been reloaded.")
}

func (c *Cog) uptime(ctx *platform.Context) error {
	now := time.Now()
	up := now.Sub(c.bot.StartTime).Truncate(time.Second)
	return ctx.Replyf("Initialized: `%s`\nCurrent Time: `%s`\nUptime: `%s`",
		c.bot.StartTime.Format(timeLayout), now.Format(timeLayout), up)
}

// prefix with no arguments shows the effective prefix, "prefix reset" drops
// the custom one, anything else becomes the new custom prefix.
func (c *Cog) prefix(ctx *platform.Context) error {
	guildID := *ctx.GuildID

	if len(ctx.Args) == 0 {
		if custom, ok := c.bot.Prefixes.Get(guildID); ok {
			return ctx.Replyf("This guild's custom prefix is `%s` (the default `%s` still works).", custom, platform.DefaultPrefix)
		}
		return ctx.Replyf("This guild uses the default prefix `%s`.", platform.DefaultPrefix)
	}

	if strings.EqualFold(ctx.Args[0], "reset") {
		if _, ok := c.bot.Prefixes.Get(guildID); !ok {
			return ctx.Replyf("This guild already uses the default prefix `%s`.", platform.DefaultPrefix)
		}
		if err := c.bot.Prefixes.Unset(ctx, guildID); err != nil {
			return err
		}
		return ctx.Replyf("Custom prefix removed, back to the default `%s`.", platform.DefaultPrefix)
	}

	newPrefix := ctx.Args[0]
	if len(newPrefix) > 10 {
		return ctx.Reply("Sorry, prefixes longer than 10 characters are not allowed.")
	}
	if err := c.bot.Prefixes.Set(ctx, guildID, newPrefix); err != nil {
		return err
	}
	return ctx.Replyf("Custom prefix set to `%s`.", newPrefix)
}

func replyErrBlock(ctx *platform.Context, err error) error {
	return ctx.Reply(fmt.Sprintf("```\n%v\n```", err))
}
