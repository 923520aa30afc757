// Package cmd wires the wbserver command line interface.
package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/koopa0/wbserver/internal/config"
	"github.com/koopa0/wbserver/internal/log"
	srv "github.com/koopa0/wbserver/internal/mcp"
	"github.com/koopa0/wbserver/internal/restcountries"
	"github.com/koopa0/wbserver/internal/worldbank"
)

// ServerName identifies the server to MCP clients.
const ServerName = "world-bank-server"

var rootCmd = &cobra.Command{
	Use:   "wbserver",
	Short: "MCP server for World Bank country and indicator data",
	Long: `wbserver exposes a local World Bank indicator snapshot and two live
REST APIs (REST Countries, World Bank) to MCP clients.

Resources: data://schema, data://countries, data://indicators/{country_code}
Tools:     get_country_info, get_live_indicator, compare_countries

Running wbserver without a subcommand serves streamable HTTP.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// No subcommand: serve over HTTP.
		return runServe()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// setup loads configuration, installs the process logger, and builds the
// MCP server with its two upstream clients. Shared by serve and stdio.
func setup() (*config.Config, *srv.Server, log.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}

	logger := log.New(log.Config{
		Level: log.ParseLevel(cfg.LogLevel),
		JSON:  cfg.LogJSON,
	})
	slog.SetDefault(logger)

	server, err := srv.NewServer(srv.Config{
		Name:      ServerName,
		Version:   Version,
		Logger:    logger,
		DataFile:  cfg.DataFile,
		Countries: restcountries.New(cfg.RESTCountriesURL, cfg.HTTPTimeout()),
		WorldBank: worldbank.New(cfg.WorldBankURL, cfg.HTTPTimeout()),
	})
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, server, logger, nil
}
