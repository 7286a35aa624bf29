package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
)

// Config is the complete runtime configuration.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Rules   RulesConfig   `mapstructure:"rules"`
	Timing  TimingConfig  `mapstructure:"timing"`
	Layout  LayoutConfig  `mapstructure:"layout"`
	Shake   ShakeConfig   `mapstructure:"shake"`
	Server  ServerConfig  `mapstructure:"server"`
	Seed    int64         `mapstructure:"seed"` // 0 picks a time-based seed
}

// LoggingConfig selects the zap level and encoder.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// RulesConfig holds the fixed-size parameters of a round.
type RulesConfig struct {
	MinHandSize          int `mapstructure:"min_hand_size"`
	ReserveSize          int `mapstructure:"reserve_size"`
	CopyFallbackStrength int `mapstructure:"copy_fallback_strength"`
}

// TimingConfig holds transfer durations in frames.
type TimingConfig struct {
	DealTicks    int `mapstructure:"deal_ticks"`
	DrawTicks    int `mapstructure:"draw_ticks"`
	PlayTicks    int `mapstructure:"play_ticks"`
	BurnTicks    int `mapstructure:"burn_ticks"`
	PickupTicks  int `mapstructure:"pickup_ticks"`
	MisplayTicks int `mapstructure:"misplay_ticks"`
}

// Anchor is a screen position.
type Anchor struct {
	X float64 `mapstructure:"x"`
	Y float64 `mapstructure:"y"`
}

// LayoutConfig places each zone on screen.
type LayoutConfig struct {
	Deck            Anchor  `mapstructure:"deck"`
	Discard         Anchor  `mapstructure:"discard"`
	Burn            Anchor  `mapstructure:"burn"`
	Destroy         Anchor  `mapstructure:"destroy"`
	Hand            Anchor  `mapstructure:"hand"`
	UnderHand       Anchor  `mapstructure:"under_hand"`
	OverHand        Anchor  `mapstructure:"over_hand"`
	CardWidth       float64 `mapstructure:"card_width"`
	HandMaxWidth    float64 `mapstructure:"hand_max_width"`
	ReserveSpacing  float64 `mapstructure:"reserve_spacing"`
	PileStackOffset float64 `mapstructure:"pile_stack_offset"`
}

// Shake is a cosmetic shake request: duration in frames and pixel intensity.
type Shake struct {
	Frames    int `mapstructure:"frames"`
	Intensity int `mapstructure:"intensity"`
}

// ShakeConfig holds the shake presets handed to the renderer.
type ShakeConfig struct {
	Hand    Shake `mapstructure:"hand"`
	Pile    Shake `mapstructure:"pile"`
	Screen  Shake `mapstructure:"screen"`
	Reserve Shake `mapstructure:"reserve"`
}

// ServerConfig configures the websocket renderer bridge.
type ServerConfig struct {
	Address string `mapstructure:"address"`
	FPS     int    `mapstructure:"fps"`
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("rules.min_hand_size", 4)
	v.SetDefault("rules.reserve_size", 3)
	v.SetDefault("rules.copy_fallback_strength", 0)

	v.SetDefault("timing.deal_ticks", 20)
	v.SetDefault("timing.draw_ticks", 15)
	v.SetDefault("timing.play_ticks", 12)
	v.SetDefault("timing.burn_ticks", 30)
	v.SetDefault("timing.pickup_ticks", 20)
	v.SetDefault("timing.misplay_ticks", 25)

	v.SetDefault("layout.deck.x", 1100)
	v.SetDefault("layout.deck.y", 350)
	v.SetDefault("layout.discard.x", 600)
	v.SetDefault("layout.discard.y", 350)
	v.SetDefault("layout.burn.x", 150)
	v.SetDefault("layout.burn.y", 350)
	v.SetDefault("layout.destroy.x", -300)
	v.SetDefault("layout.destroy.y", 350)
	v.SetDefault("layout.hand.x", 475)
	v.SetDefault("layout.hand.y", 725)
	v.SetDefault("layout.under_hand.x", 950)
	v.SetDefault("layout.under_hand.y", 725)
	v.SetDefault("layout.over_hand.x", 950)
	v.SetDefault("layout.over_hand.y", 695)
	v.SetDefault("layout.card_width", 144)
	v.SetDefault("layout.hand_max_width", 810)
	v.SetDefault("layout.reserve_spacing", 150)
	v.SetDefault("layout.pile_stack_offset", 0.1)

	v.SetDefault("shake.hand.frames", 7)
	v.SetDefault("shake.hand.intensity", 12)
	v.SetDefault("shake.pile.frames", 7)
	v.SetDefault("shake.pile.intensity", 12)
	v.SetDefault("shake.screen.frames", 40)
	v.SetDefault("shake.screen.intensity", 25)
	v.SetDefault("shake.reserve.frames", 7)
	v.SetDefault("shake.reserve.intensity", 12)

	v.SetDefault("server.address", "127.0.0.1:8080")
	v.SetDefault("server.fps", 60)

	v.SetDefault("seed", 0)
}

// Default returns the configuration with every default applied.
func Default() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		// Defaults are static; failing to decode them is a programming error.
		panic(fmt.Sprintf("config: decode defaults: %v", err))
	}
	return cfg
}

// Load reads the configuration file at path (if any), applies PALACE_
// environment overrides, and validates the result. An empty path or a
// missing file yields the defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix("PALACE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config %s: %w", path, err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values the engine depends on.
func (c *Config) Validate() error {
	if c.Rules.MinHandSize < 1 {
		return fmt.Errorf("rules.min_hand_size must be positive, got %d", c.Rules.MinHandSize)
	}
	if c.Rules.ReserveSize < 0 {
		return fmt.Errorf("rules.reserve_size must not be negative, got %d", c.Rules.ReserveSize)
	}
	durations := map[string]int{
		"timing.deal_ticks":    c.Timing.DealTicks,
		"timing.draw_ticks":    c.Timing.DrawTicks,
		"timing.play_ticks":    c.Timing.PlayTicks,
		"timing.burn_ticks":    c.Timing.BurnTicks,
		"timing.pickup_ticks":  c.Timing.PickupTicks,
		"timing.misplay_ticks": c.Timing.MisplayTicks,
	}
	for key, ticks := range durations {
		if ticks < 0 {
			return fmt.Errorf("%s must not be negative, got %d", key, ticks)
		}
	}
	if c.Server.FPS < 1 {
		return fmt.Errorf("server.fps must be positive, got %d", c.Server.FPS)
	}
	return nil
}
