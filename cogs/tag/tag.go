// Package tag implements the guild tag commands: named text snippets stored
// in postgres, invoked by name, with fuzzy search and usage stats.
package tag

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/JamesNgai/qtbot/db"
	"github.com/JamesNgai/qtbot/platform"
	"github.com/JamesNgai/qtbot/telemetry"
	"github.com/disgoorg/disgo/discord"
)

const colorBlue = 0x3498db

// emojiMap numbers list entries the way the bot always has. Entries past the
// map fall back to plain numbering.
var emojiMap = []string{"1⃣", "2⃣", "3⃣", "4⃣", "5⃣"}

func listMarker(idx int) string {
	if idx < len(emojiMap) {
		return emojiMap[idx]
	}
	return fmt.Sprintf("%d.", idx+1)
}

// store is the slice of db.TagStore the cog needs. Tests swap in a fake.
type store interface {
	Get(ctx context.Context, guildID int64, name string) (*db.Tag, error)
	Create(ctx context.Context, guildID, ownerID int64, name, contents string) error
	Invoke(ctx context.Context, guildID int64, name string) (string, error)
	Delete(ctx context.Context, guildID int64, name string, requesterID int64, requesterIsAdmin bool) error
	Edit(ctx context.Context, guildID int64, name string, requesterID int64, requesterIsAdmin bool, contents string) error
	Search(ctx context.Context, guildID int64, query string, limit int) ([]string, error)
	Stats(ctx context.Context, guildID int64) (*db.TagStats, error)
}

type Cog struct {
	store store
}

func New(b *platform.Bot) (platform.Cog, error) {
	if b.Tags == nil {
		return nil, errors.New("tag cog needs a tag store")
	}
	return &Cog{store: b.Tags}, nil
}

func newWithStore(s store) *Cog {
	return &Cog{store: s}
}

func (c *Cog) Name() string { return "tag" }

func (c *Cog) Commands() []*platform.Command {
	return []*platform.Command{
		{
			Name:        "tag",
			Description: "Retrieve a tag by name",
			GuildOnly:   true,
			Run:         c.invoke,
			Subcommands: []*platform.Command{
				{Name: "create", Aliases: []string{"add"}, Description: "Create a new tag", Run: c.create},
				{Name: "delete", Aliases: []string{"del", "delet"}, Description: "Delete a tag you created (or if you're an admin)", Run: c.delete},
				{Name: "edit", Aliases: []string{"ed"}, Description: "Edit a tag which you created", Run: c.edit},
				{Name: "info", Description: "Retrieve information about a tag", Run: c.info},
				{Name: "search", Description: "Search for some matching tags", Run: c.search},
				{Name: "stats", Aliases: []string{"stat"}, Description: "Get stats about the tags for your guild", Run: c.stats},
			},
		},
	}
}

func (c *Cog) invoke(ctx *platform.Context) error {
	name := strings.TrimSpace(ctx.ArgText)
	if name == "" {
		return ctx.Reply("Usage: `tag <name>`.")
	}

	contents, err := c.store.Invoke(ctx, int64(*ctx.GuildID), name)
	if errors.Is(err, db.ErrNotFound) {
		return ctx.Replyf("Sorry, I couldn't find a tag matching `%s`.", name)
	}
	if err != nil {
		return err
	}
	telemetry.TagInvoked()
	return ctx.Reply(contents)
}

func (c *Cog) create(ctx *platform.Context) error {
	name, contents, ok := splitNameContents(ctx.ArgText)
	if !ok {
		return ctx.Reply("Usage: `tag create <name> <contents>`.")
	}

	err := c.store.Create(ctx, int64(*ctx.GuildID), int64(ctx.AuthorID), name, contents)
	if errors.Is(err, db.ErrTagExists) {
		return ctx.Replyf("Sorry, tag `%s` already exists. If you own it, feel free to `tag edit` it.", name)
	}
	if err != nil {
		return err
	}
	return ctx.Replyf("Tag `%s` created.", name)
}

func (c *Cog) delete(ctx *platform.Context) error {
	name := strings.TrimSpace(ctx.ArgText)
	if name == "" {
		return ctx.Reply("Usage: `tag delete <name>`.")
	}

	err := c.store.Delete(ctx, int64(*ctx.GuildID), name, int64(ctx.AuthorID), ctx.IsAdmin)
	switch {
	case errors.Is(err, db.ErrNotFound):
		return ctx.Replyf("Sorry, I couldn't find a tag matching `%s`.", name)
	case errors.Is(err, db.ErrForbidden):
		return ctx.Reply("Sorry, you do not have the necessary permissions to delete this tag.")
	case err != nil:
		return err
	}
	return ctx.Replyf("Tag `%s` deleted.", name)
}

func (c *Cog) edit(ctx *platform.Context) error {
	name, contents, ok := splitNameContents(ctx.ArgText)
	if !ok {
		return ctx.Reply("Usage: `tag edit <name> <contents>`.")
	}

	err := c.store.Edit(ctx, int64(*ctx.GuildID), name, int64(ctx.AuthorID), ctx.IsAdmin, contents)
	switch {
	case errors.Is(err, db.ErrNotFound):
		return ctx.Replyf("Sorry, I couldn't find a tag matching `%s`.", name)
	case errors.Is(err, db.ErrForbidden):
		return ctx.Reply("Sorry, you do not have the necessary permissions to edit this tag.")
	case err != nil:
		return err
	}
	return ctx.Replyf("Successfully edited tag `%s`.", name)
}

func (c *Cog) info(ctx *platform.Context) error {
	name := strings.TrimSpace(ctx.ArgText)
	if name == "" {
		return ctx.Reply("Usage: `tag info <name>`.")
	}

	tag, err := c.store.Get(ctx, int64(*ctx.GuildID), name)
	if errors.Is(err, db.ErrNotFound) {
		return ctx.Replyf("Sorry, I couldn't find a tag matching `%s`.", name)
	}
	if err != nil {
		return err
	}

	embed := discord.NewEmbedBuilder().
		SetTitle(tag.Name).
		SetColor(colorBlue).
		AddField("Tag Owner:", fmt.Sprintf("<@%d>", tag.OwnerID), true).
		AddField("Uses:", fmt.Sprintf("%d", tag.TotalUses), true).
		SetFooterText("Created at").
		SetTimestamp(tag.CreatedAt).
		Build()
	return ctx.ReplyEmbed(embed)
}

func (c *Cog) search(ctx *platform.Context) error {
	query := strings.TrimSpace(ctx.ArgText)

	names, err := c.store.Search(ctx, int64(*ctx.GuildID), query, 10)
	if errors.Is(err, db.ErrQueryTooShort) {
		return ctx.Reply("Sorry, you'll have to be more specific.")
	}
	if err != nil {
		return err
	}

	lines := make([]string, 0, len(names)+1)
	switch len(names) {
	case 0:
		lines = append(lines, fmt.Sprintf(":warning: I could not find any matching tags for \"%s\".", query))
	case 1:
		lines = append(lines, "I found 1 similar tag:")
	default:
		lines = append(lines, fmt.Sprintf("I found %d similar tags:", len(names)))
	}
	for idx, name := range names {
		lines = append(lines, fmt.Sprintf("%s %s", listMarker(idx), name))
	}

	embed := discord.NewEmbedBuilder().
		SetTitle(":mag: Tag Search Results").
		SetColor(colorBlue).
		SetDescription(strings.Join(lines, "\n")).
		Build()
	return ctx.ReplyEmbed(embed)
}

func (c *Cog) stats(ctx *platform.Context) error {
	stats, err := c.store.Stats(ctx, int64(*ctx.GuildID))
	if err != nil {
		return err
	}

	builder := discord.NewEmbedBuilder().
		SetTitle(":label: Tag Stats").
		SetColor(colorBlue)
	for idx, use := range stats.Top {
		builder.AddField(fmt.Sprintf("%s %s", listMarker(idx), use.Name), fmt.Sprintf("Uses: %d", use.Uses), false)
	}
	builder.AddField("Total Tags", fmt.Sprintf("%d", stats.Total), true)
	builder.AddField("Total Tag Uses", fmt.Sprintf("%d", stats.TotalUses), true)
	return ctx.ReplyEmbed(builder.Build())
}

// splitNameContents separates the first token (the tag name) from the rest
// of the line (the contents). Both must be non-empty.
func splitNameContents(argText string) (name, contents string, ok bool) {
	fields := strings.Fields(argText)
	if len(fields) < 2 {
		return "", "", false
	}
	name = fields[0]
	rest := strings.TrimSpace(argText)
	contents = strings.TrimSpace(strings.TrimPrefix(rest, name))
	return name, contents, contents != ""
}
