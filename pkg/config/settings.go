// Package config resolves Pippin's settings from flags, environment and the
// optional YAML config file.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const EnvPrefix = "PIPPIN"

const (
	KeyDelay         = "delay"
	KeyPersona       = "persona"
	KeyVerbose       = "verbose"
	KeyServerAddr    = "server.addr"
	KeyWSAddr        = "server.ws_addr"
	KeySessionTTL    = "server.session_ttl"
	KeyRateLimit     = "server.rate_limit"
	KeyTelegramToken = "bots.telegram_token"
	KeyDiscordToken  = "bots.discord_token"
)

type Settings struct {
	Delay       time.Duration
	PersonaFile string
	Verbose     bool

	ServerAddr string
	WSAddr     string
	SessionTTL time.Duration
	RateLimit  int // requests per minute per IP, 0 disables

	TelegramToken string
	DiscordToken  string
}

// SetDefaults registers the defaults on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyDelay, time.Second)
	v.SetDefault(KeyPersona, "")
	v.SetDefault(KeyVerbose, false)
	v.SetDefault(KeyServerAddr, ":3000")
	v.SetDefault(KeyWSAddr, "")
	v.SetDefault(KeySessionTTL, 30*time.Minute)
	v.SetDefault(KeyRateLimit, 60)
	v.SetDefault(KeyTelegramToken, "")
	v.SetDefault(KeyDiscordToken, "")
}

// BindEnv makes PIPPIN_SERVER_ADDR style variables override file values.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load reads the resolved settings out of v.
func Load(v *viper.Viper) (*Settings, error) {
	s := &Settings{
		Delay:         v.GetDuration(KeyDelay),
		PersonaFile:   v.GetString(KeyPersona),
		Verbose:       v.GetBool(KeyVerbose),
		ServerAddr:    v.GetString(KeyServerAddr),
		WSAddr:        v.GetString(KeyWSAddr),
		SessionTTL:    v.GetDuration(KeySessionTTL),
		RateLimit:     v.GetInt(KeyRateLimit),
		TelegramToken: v.GetString(KeyTelegramToken),
		DiscordToken:  v.GetString(KeyDiscordToken),
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Settings) Validate() error {
	if s.Delay < 0 {
		return fmt.Errorf("%s must not be negative, got %s", KeyDelay, s.Delay)
	}
	if s.SessionTTL <= 0 {
		return fmt.Errorf("%s must be positive, got %s", KeySessionTTL, s.SessionTTL)
	}
	if s.RateLimit < 0 {
		return fmt.Errorf("%s must not be negative, got %d", KeyRateLimit, s.RateLimit)
	}
	return nil
}
