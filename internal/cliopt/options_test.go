package cliopt

import (
	"flag"
	"io"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/nonibytes/querywrap/internal/config"
)

func TestConfigFileArg(t *testing.T) {
	cases := []struct {
		argv []string
		want string
	}{
		{[]string{"--config", "a.yaml", "find"}, "a.yaml"},
		{[]string{"--backend=sqlite", "-config=b.toml", "find"}, "b.toml"},
		{[]string{"find", "--config", "c.yaml"}, ""},
		{[]string{"--backend", "postgres", "--config", "d.yaml", "find"}, "d.yaml"},
		{nil, ""},
	}
	for _, tc := range cases {
		assert.Equal(t, ConfigFileArg(tc.argv), tc.want, "argv=%v", tc.argv)
	}
}

func TestFlagsOverrideConfig(t *testing.T) {
	cfg := config.Config{
		DB:  config.DBConfig{Backend: "sqlite", SQLitePath: "a.db", SQLiteDriver: "sqlite"},
		Log: config.LogConfig{Level: "info", Format: "text"},
	}
	g := FromConfig(cfg)

	fs := flag.NewFlagSet("t", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	BindGlobalFlags(fs, &g)
	assert.NilError(t, fs.Parse([]string{"--sqlite-path", "b.db", "--log-level", "debug", "find"}))

	assert.Equal(t, g.SQLitePath, "b.db")
	assert.Equal(t, g.LogLevel, "debug")
	assert.Equal(t, g.Backend, "sqlite")
	assert.DeepEqual(t, fs.Args(), []string{"find"})
}
