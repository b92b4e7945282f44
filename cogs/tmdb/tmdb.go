// Package tmdb answers movie and tv show lookups through themoviedb.
package tmdb

import (
	"errors"
	"fmt"
	"strings"

	"github.com/JamesNgai/qtbot/integrations/tmdb"
	"github.com/JamesNgai/qtbot/platform"
	"github.com/disgoorg/disgo/discord"
)

const colorGreyple = 0x99aab5

// recommendThreshold is the rating above which a title earns the qtbot
// seal of approval.
const recommendThreshold = 7.0

type Cog struct {
	bot *platform.Bot
}

func New(b *platform.Bot) (platform.Cog, error) {
	if b.Cfg.TMDB == "" {
		return nil, errors.New("tmdb cog needs an api key")
	}
	return &Cog{bot: b}, nil
}

func (c *Cog) Name() string { return "tmdb" }

func (c *Cog) Commands() []*platform.Command {
	return []*platform.Command{
		{Name: "movie", Aliases: []string{"mov"}, Description: "Get movie information", Run: c.movie},
		{Name: "show", Aliases: []string{"ss", "tv"}, Description: "Get TV show information", Run: c.show},
	}
}

func (c *Cog) movie(ctx *platform.Context) error {
	return c.lookup(ctx, tmdb.KindMovie, "film")
}

func (c *Cog) show(ctx *platform.Context) error {
	return c.lookup(ctx, tmdb.KindTV, "show")
}

func (c *Cog) lookup(ctx *platform.Context, kind, noun string) error {
	query := strings.TrimSpace(ctx.ArgText)
	if query == "" {
		return ctx.Replyf("You'll have to give me a %s to look up.", noun)
	}

	result, err := c.bot.TMDB.Search(ctx, kind, query)
	if errors.Is(err, tmdb.ErrNoResults) {
		return ctx.Reply("Sorry, couldn't find that one.")
	}
	if err != nil {
		return err
	}

	rec := fmt.Sprintf("This is a qtbot™ recommended %s.", noun)
	if result.VoteAverage < recommendThreshold {
		rec = fmt.Sprintf("This is not a qtbot™ recommended %s.", noun)
	}

	builder := discord.NewEmbedBuilder().
		SetTitle(fmt.Sprintf("%s (%s)", result.Title(), result.Year())).
		SetColor(colorGreyple).
		SetDescription(result.Overview).
		AddField("Rating", fmt.Sprintf("%.1f", result.VoteAverage), true).
		SetFooterText(rec)
	if poster := result.PosterURL(); poster != "" {
		builder.SetThumbnail(poster)
	}
	return ctx.ReplyEmbed(builder.Build())
}
