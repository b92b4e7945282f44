// Package generic is the grab bag of fun commands that every guild seems to
// want: say, the magic 8-ball, slaps and the same/unsame ritual.
package generic

import (
	"math/rand"

	"github.com/JamesNgai/qtbot/platform"
)

var kickPhrases = []string{
	"I would never!",
	"That isn't very nice!",
	"Maybe we should talk about our feelings.",
	"Calm down.",
	"Check your privileges.",
	"Make love, not war.",
}

var ballResponses = []string{
	"It is certain", "It is decidedly so", "Without a doubt",
	"Yes definitely", "You may rely on it", "As I see it, yes",
	"Most likely", "Outlook good", "Yes", "Signs point to yes",
	"Reply hazy try again", "Ask again later", "Better not tell you now",
	"Cannot predict now", "Concentrate and ask again", "Don't count on it",
	"My reply is no", "My sources say no", "Outlook not so good", "Very doubtful",
}

type Cog struct {
	// pick is swappable so tests get deterministic choices.
	pick func(n int) int
}

func New(*platform.Bot) (platform.Cog, error) {
	return &Cog{pick: rand.Intn}, nil
}

func (c *Cog) Name() string { return "generic" }

func (c *Cog) Commands() []*platform.Command {
	return []*platform.Command{
		{Name: "say", Description: "Make qtbot say anything ;)", Run: c.say},
		{Name: "ball", Description: "Ask the magic 8ball", Run: c.ball},
		{Name: "kick", Description: "Don't use this", Run: c.kick},
		{Name: "slap", Description: "Slap someone around a bit", Run: c.slap},
		{Name: "love", Description: "Spread the love", Run: c.love},
		{Name: "same", Run: c.same},
		{Name: "unsame", Run: c.unsame},
		{Name: "resame", Run: c.resame},
		{Name: "todo", Run: c.todo},
	}
}

// say deletes the invoking message first, so the bot appears to speak on its
// own. A failed delete (missing permission) still echoes.
func (c *Cog) say(ctx *platform.Context) error {
	if ctx.ArgText == "" {
		return ctx.Reply("You'll have to give me something to say.")
	}
	_ = ctx.Sender.Delete(ctx.ChannelID, ctx.MessageID)
	return ctx.Reply(ctx.ArgText)
}

func (c *Cog) ball(ctx *platform.Context) error {
	return ctx.Reply(ballResponses[c.pick(len(ballResponses))])
}

func (c *Cog) kick(ctx *platform.Context) error {
	return ctx.Reply(kickPhrases[c.pick(len(kickPhrases))])
}

func (c *Cog) slap(ctx *platform.Context) error {
	if ctx.ArgText == "" {
		return ctx.Reply("You can't slap nothing.")
	}
	return ctx.Replyf("%s slaps %s around a bit with a large trout.", ctx.AuthorName, ctx.ArgText)
}

func (c *Cog) love(ctx *platform.Context) error {
	if ctx.ArgText == "" {
		return ctx.Replyf("%s loves ... nothing", ctx.AuthorName)
	}
	return ctx.Replyf("%s gives %s some good ol' fashioned lovin'", ctx.AuthorName, ctx.ArgText)
}

func (c *Cog) same(ctx *platform.Context) error {
	return ctx.Reply("\n[✓] same\n[ ] unsame")
}

func (c *Cog) unsame(ctx *platform.Context) error {
	return ctx.Reply("\n[ ] same\n[✓] unsame")
}

func (c *Cog) resame(ctx *platform.Context) error {
	return ctx.Reply("\n[✓] same\n [✓] re:same\n [ ] unsame")
}

func (c *Cog) todo(ctx *platform.Context) error {
	return ctx.Reply("[ ] Gambling bot [ ] League Match History")
}
