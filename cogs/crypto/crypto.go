// Package crypto tracks bitcoin via the coinmarketcap ticker.
package crypto

import (
	"errors"
	"fmt"
	"strings"

	"github.com/JamesNgai/qtbot/platform"
	"github.com/disgoorg/disgo/discord"
)

const (
	colorGold  = 0xf1c40f
	btcLogoURL = "https://en.bitcoin.it/w/images/en/2/29/BC_Logo_.png"
)

type Cog struct {
	bot *platform.Bot
}

func New(b *platform.Bot) (platform.Cog, error) {
	if b.Crypto == nil {
		return nil, errors.New("crypto cog needs the coinmarketcap client")
	}
	return &Cog{bot: b}, nil
}

func (c *Cog) Name() string { return "crypto" }

func (c *Cog) Commands() []*platform.Command {
	return []*platform.Command{
		{Name: "bitcoin", Aliases: []string{"btc"}, Description: "Get current information regarding the value of bitcoin", Run: c.bitcoin},
	}
}

func (c *Cog) bitcoin(ctx *platform.Context) error {
	ticker, err := c.bot.Crypto.Bitcoin(ctx)
	if err != nil {
		return err
	}

	builder := discord.NewEmbedBuilder().
		SetColor(colorGold).
		SetAuthor("Bitcoin", "", btcLogoURL).
		AddField("Price USD", "$"+ticker.PriceUSD, true).
		AddField("Hourly trend", trend(ticker.Change1h), true).
		AddField("Daily trend", trend(ticker.Change24h), true).
		AddField("Weekly trend", trend(ticker.Change7d), true).
		SetFooterText("Last updated")
	if !ticker.LastUpdated.IsZero() {
		builder.SetTimestamp(ticker.LastUpdated)
	}
	return ctx.ReplyEmbed(builder.Build())
}

func trend(change string) string {
	arrow := ":arrow_up:"
	if strings.Contains(change, "-") {
		arrow = ":arrow_down:"
	}
	return fmt.Sprintf("%s %s%%", arrow, change)
}
