package config

func (c *Config) GetBotToken() string {
	return c.v.GetString("bot_token")
}

func (c *Config) GetAppID() string {
	return c.v.GetString("app_id")
}

// GetEnv returns the deployment mode, either "prod" or "dev".
func (c *Config) GetEnv() string {
	return c.v.GetString("env")
}

// SetEnv overrides the deployment mode. Used by the CLI positional argument.
func (c *Config) SetEnv(env string) {
	c.v.Set("env", env)
}

func (c *Config) IsDev() bool {
	return c.GetEnv() != "prod"
}

// GetDatabasePath returns the sqlite path for the active deployment mode.
func (c *Config) GetDatabasePath() string {
	if c.IsDev() {
		return c.v.GetString("database_path_dev")
	}
	return c.v.GetString("database_path")
}

// GetDefaultPrefix is the text command prefix used before a guild sets its own.
func (c *Config) GetDefaultPrefix() string {
	return c.v.GetString("default_prefix")
}

// GetFlagPrefix introduces named flag arguments in text commands.
func (c *Config) GetFlagPrefix() string {
	return c.v.GetString("flag_prefix")
}

// GetMainGuildID is the guild hosting the operational error channel.
func (c *Config) GetMainGuildID() string {
	return c.v.GetString("main_guild_id")
}

// GetErrorChannelID is where unhandled handler errors get posted outside dev mode.
func (c *Config) GetErrorChannelID() string {
	return c.v.GetString("error_channel_id")
}
