// Package weather serves current conditions and forecasts scraped from
// bing, with a redis cache in front and saved per-user locations behind.
package weather

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/JamesNgai/qtbot/db"
	"github.com/JamesNgai/qtbot/integrations/bingweather"
	"github.com/JamesNgai/qtbot/logger/dlog"
	"github.com/JamesNgai/qtbot/platform"
	"github.com/JamesNgai/qtbot/telemetry"
	"github.com/disgoorg/disgo/discord"
)

const (
	colorSky = 0xb1d9f4
	cacheTTL = time.Hour
)

const noLocationMsg = "You don't have a location saved! " +
	"Feel free to use `al` to add your location, or supply one to the command."

type Cog struct {
	bot *platform.Bot
}

func New(b *platform.Bot) (platform.Cog, error) {
	if b.Weather == nil {
		return nil, errors.New("weather cog needs the bing client")
	}
	return &Cog{bot: b}, nil
}

func (c *Cog) Name() string { return "weather" }

func (c *Cog) Commands() []*platform.Command {
	return []*platform.Command{
		{Name: "weather", Aliases: []string{"wt", "w"}, Description: "Get the weather of a given area (zipcode, city, etc.)", Run: c.weather},
		{Name: "forecast", Aliases: []string{"fc"}, Description: "Get the forecast of a given location", Run: c.forecast},
		{Name: "add_location", Aliases: []string{"al", "az"}, Description: "Save your location so you don't have to supply it later", Run: c.addLocation},
		{Name: "remove_location", Aliases: []string{"rl", "rz"}, Description: "Remove your location from the database", Run: c.removeLocation},
	}
}

func (c *Cog) addLocation(ctx *platform.Context) error {
	location := strings.TrimSpace(ctx.ArgText)
	if location == "" {
		return ctx.Reply("Usage: `add_location <zip, city, etc>`.")
	}
	if err := c.bot.Users.Upsert(ctx, int64(ctx.AuthorID), db.ColumnZipcode, location); err != nil {
		return err
	}
	return ctx.Replyf("Successfully added location `%s`.", location)
}

func (c *Cog) removeLocation(ctx *platform.Context) error {
	if err := c.bot.Users.Remove(ctx, int64(ctx.AuthorID), db.ColumnZipcode); err != nil {
		return err
	}
	return ctx.Replyf("Successfully removed location for `%s`.", ctx.AuthorName)
}

// resolveLocation takes the command argument, falling back to the author's
// saved zipcode.
func (c *Cog) resolveLocation(ctx *platform.Context) (string, error) {
	if location := strings.TrimSpace(ctx.ArgText); location != "" {
		return location, nil
	}
	location, err := c.bot.Users.Fetch(ctx, int64(ctx.AuthorID), db.ColumnZipcode)
	if errors.Is(err, db.ErrNotFound) {
		return "", nil
	}
	return location, err
}

// report is the cache-aside lookup: redis hit decodes the cached report,
// miss scrapes bing and caches for an hour.
func (c *Cog) report(ctx *platform.Context, location string) (*bingweather.Report, error) {
	key := location + ":weather"

	if cached, ok := c.cacheGet(key); ok {
		telemetry.CacheHit()
		return cached, nil
	}
	telemetry.CacheMiss()

	report, err := c.bot.Weather.Fetch(ctx, location)
	if err != nil {
		return nil, err
	}
	c.cacheSet(key, report)
	return report, nil
}

func (c *Cog) cacheGet(key string) (*bingweather.Report, bool) {
	if c.bot.Cache == nil {
		return nil, false
	}
	exists, err := c.bot.Cache.Exists(key)
	if err != nil {
		dlog.Warn("weather cache read failed", "key", key, "err", err)
		return nil, false
	}
	if !exists {
		return nil, false
	}
	raw, err := c.bot.Cache.Get(key)
	if err != nil {
		dlog.Warn("weather cache read failed", "key", key, "err", err)
		return nil, false
	}
	report := &bingweather.Report{}
	if err := json.Unmarshal([]byte(raw), report); err != nil {
		dlog.Warn("weather cache entry corrupt", "key", key, "err", err)
		return nil, false
	}
	return report, true
}

func (c *Cog) cacheSet(key string, report *bingweather.Report) {
	if c.bot.Cache == nil {
		return
	}
	raw, err := json.Marshal(report)
	if err != nil {
		return
	}
	if err := c.bot.Cache.SetEX(key, string(raw), cacheTTL); err != nil {
		dlog.Warn("weather cache write failed", "key", key, "err", err)
	}
}

func (c *Cog) weather(ctx *platform.Context) error {
	location, err := c.resolveLocation(ctx)
	if err != nil {
		return err
	}
	if location == "" {
		return ctx.Reply(noLocationMsg)
	}

	report, err := c.report(ctx, location)
	if errors.Is(err, bingweather.ErrNoWeather) {
		return ctx.Reply("Couldn't find that location.")
	}
	if err != nil {
		return err
	}

	tempUnit, windUnit := "°F", "MPH"
	if report.NeedsConversion {
		report.ToCelsius()
		tempUnit, windUnit = "°C", "m/s"
	}

	embed := discord.NewEmbedBuilder().
		SetTitle(report.Location).
		SetColor(colorSky).
		AddField("Temperature", fmt.Sprintf("%d%s", report.Temp, tempUnit), true).
		AddField("Conditions", report.Conditions, true).
		AddField("Wind", fmt.Sprintf("%d %s", report.Wind, windUnit), true).
		AddField("Precip.", report.Precip, true).
		AddField("Humidity", report.Humidity, true).
		SetThumbnail(report.ImgURL).
		Build()
	return ctx.ReplyEmbed(embed)
}

func (c *Cog) forecast(ctx *platform.Context) error {
	location, err := c.resolveLocation(ctx)
	if err != nil {
		return err
	}
	if location == "" {
		return ctx.Reply(noLocationMsg)
	}

	report, err := c.report(ctx, location)
	if errors.Is(err, bingweather.ErrNoWeather) {
		return ctx.Reply("Couldn't find that location.")
	}
	if err != nil {
		return err
	}
	if len(report.Forecast) == 0 {
		return ctx.Reply("No forecast available for that location.")
	}

	days := report.Forecast
	if len(days) > 2 {
		days = days[:2]
	}
	lines := make([]string, len(days))
	for i, day := range days {
		lines[i] = strings.ReplaceAll(day, "°", "°F")
	}
	return ctx.Reply(strings.Join(lines, "\n"))
}
