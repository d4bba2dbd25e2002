package main

import (
	"fmt"
	"os"

	"gopkg.in/ini.v1"
)

// credentials holds provider keys for the search and model tiers.
type credentials struct {
	SearchKey     string
	SearchBaseURL string
	LLMKey        string
	LLMBaseURL    string
	LLMModel      string
}

// loadCredentials reads the INI file at path (optional) and applies
// environment overrides on top.
func loadCredentials(path string, getenv func(string) string) (credentials, error) {
	var c credentials
	if path != "" {
		cfg, err := ini.Load(path)
		if err != nil {
			return c, fmt.Errorf("load credentials %s: %w", path, err)
		}
		search := cfg.Section("search")
		c.SearchKey = search.Key("api_key").String()
		c.SearchBaseURL = search.Key("base_url").String()

		llm := cfg.Section("llm")
		c.LLMKey = llm.Key("api_key").String()
		c.LLMBaseURL = llm.Key("base_url").String()
		c.LLMModel = llm.Key("model").String()
	}

	override(&c.SearchKey, getenv("TAVILY_API_KEY"))
	override(&c.LLMKey, getenv("GEMINI_API_KEY"))
	override(&c.LLMBaseURL, getenv("LLM_BASE_URL"))
	override(&c.LLMModel, getenv("LLM_MODEL"))
	return c, nil
}

func override(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func envCredentials(path string) (credentials, error) {
	return loadCredentials(path, os.Getenv)
}
