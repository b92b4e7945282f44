// Package platform is the bot core: the disgo gateway wiring, the prefix
// registry, the extension registry and the command router.
package platform

import (
	"time"

	"github.com/JamesNgai/qtbot/cache"
	"github.com/JamesNgai/qtbot/config"
	"github.com/JamesNgai/qtbot/db"
	"github.com/JamesNgai/qtbot/logger/dlog"
	"github.com/disgoorg/disgo"
	"github.com/disgoorg/disgo/bot"
	discache "github.com/disgoorg/disgo/cache"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"golang.org/x/net/context"

	"github.com/JamesNgai/qtbot/integrations/bingweather"
	"github.com/JamesNgai/qtbot/integrations/coinmarketcap"
	"github.com/JamesNgai/qtbot/integrations/tmdb"
)

// Bot carries every shared handle a cog might need. It is passed explicitly
// to each cog factory; there is no ambient global state.
type Bot struct {
	Cfg    *config.Config
	Client bot.Client

	Tags     *db.TagStore
	Users    *db.UserInfoStore
	Cache    *cache.Client
	Prefixes *PrefixRegistry
	Cogs     *CogRegistry
	Router   *Router

	Crypto  *coinmarketcap.Client
	TMDB    *tmdb.Client
	Weather *bingweather.Client

	StartTime time.Time
}

// New builds the bot around already-open store connections. Nothing touches
// the network here; Setup opens the gateway.
func New(cfg *config.Config, tags *db.TagStore, users *db.UserInfoStore, prefixStore PrefixStore, cacheClient *cache.Client) *Bot {
	b := &Bot{
		Cfg:       cfg,
		Tags:      tags,
		Users:     users,
		Cache:     cacheClient,
		Prefixes:  NewPrefixRegistry(prefixStore),
		Crypto:    coinmarketcap.New(nil),
		TMDB:      tmdb.New(cfg.TMDB, nil),
		Weather:   bingweather.New(nil),
		StartTime: time.Now(),
	}
	b.Cogs = NewCogRegistry(b)
	b.Cogs.Deny(cfg.DoNotLoad...)
	b.Router = &Router{Bot: b, Prefixes: b.Prefixes, Cogs: b.Cogs}
	return b
}

// Setup connects to the gateway and wires the message listener. The prefix
// registry must be loaded before calling this.
func (b *Bot) Setup(ctx context.Context) error {
	client, err := disgo.New(b.Cfg.Discord,
		bot.WithGatewayConfigOpts(
			gateway.WithIntents(
				gateway.IntentGuilds,
				gateway.IntentGuildMessages,
				gateway.IntentDirectMessages,
				gateway.IntentMessageContent,
			),
		),
		bot.WithCacheConfigOpts(
			discache.WithCaches(discache.FlagGuilds, discache.FlagRoles, discache.FlagChannels),
		),
		bot.WithEventListenerFunc(func(e *events.Ready) {
			user, _ := e.Client().Caches().SelfUser()
			dlog.Info("bot is up!", "username", user.Username, "id", user.ID)
		}),
		bot.WithEventListenerFunc(func(e *events.MessageCreate) {
			go b.onMessage(e)
		}),
	)
	if err != nil {
		return err
	}
	b.Client = client
	return client.OpenGateway(ctx)
}

func (b *Bot) onMessage(e *events.MessageCreate) {
	msg := Message{
		AuthorID:   e.Message.Author.ID,
		AuthorName: e.Message.Author.Username,
		FromBot:    e.Message.Author.Bot,
		GuildID:    e.GuildID,
		ChannelID:  e.ChannelID,
		MessageID:  e.MessageID,
		Content:    e.Message.Content,
		IsOwner:    e.Message.Author.ID == b.Cfg.OwnerID,
	}
	if e.GuildID != nil {
		msg.IsAdmin = b.memberIsAdmin(*e.GuildID, e.Message.Member, e.Message.Author.ID)
	}
	b.Router.Dispatch(context.Background(), msg, &restSender{rest: b.Client.Rest()})
}

// memberIsAdmin checks the administrator permission through the role cache,
// plus guild ownership.
func (b *Bot) memberIsAdmin(guildID snowflake.ID, member *discord.Member, userID snowflake.ID) bool {
	if guild, ok := b.Client.Caches().Guild(guildID); ok && guild.OwnerID == userID {
		return true
	}
	if member == nil {
		return false
	}
	for _, roleID := range member.RoleIDs {
		role, ok := b.Client.Caches().Role(guildID, roleID)
		if ok && role.Permissions.Has(discord.PermissionAdministrator) {
			return true
		}
	}
	return false
}

// Close shuts the gateway down.
func (b *Bot) Close(ctx context.Context) {
	if b.Client != nil {
		b.Client.Close(ctx)
	}
	dlog.Info("disgo closed")
}

type restSender struct {
	rest rest.Rest
}

func (s *restSender) Send(channelID snowflake.ID, message discord.MessageCreate) error {
	_, err := s.rest.CreateMessage(channelID, message)
	return err
}

func (s *restSender) Delete(channelID, messageID snowflake.ID) error {
	return s.rest.DeleteMessage(channelID, messageID)
}
