package agent

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"stock_dashboard/pkg/core/llm"
)

type Config struct {
	ActiveProvider string                 `yaml:"active_provider"`
	Agents         map[string]AgentConfig `yaml:"agents"`
}

type AgentConfig struct {
	Provider    string `yaml:"provider"` // Optional override
	Description string `yaml:"description"`
}

type Manager struct {
	mu        sync.RWMutex
	config    Config
	providers map[string]llm.Provider
}

func NewManager(config Config) *Manager {
	return NewManagerWithProviders(config, map[string]llm.Provider{
		"gemini":        &llm.GeminiProvider{},
		"gemini_legacy": &llm.GeminiLegacyProvider{},
		"deepseek":      &llm.DeepSeekProvider{},
		"qwen":          &llm.QwenProvider{},
	})
}

// NewManagerWithProviders is NewManager with an explicit provider set.
func NewManagerWithProviders(config Config, providers map[string]llm.Provider) *Manager {
	return &Manager{config: config, providers: providers}
}

func (m *Manager) GetProvider(agentType string) (llm.Provider, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	// 1. Check for agent-specific override
	if agentConfig, ok := m.config.Agents[agentType]; ok && agentConfig.Provider != "" {
		if p, ok := m.providers[agentConfig.Provider]; ok {
			return p, nil
		}
	}

	// 2. Use global active provider
	if p, ok := m.providers[m.config.ActiveProvider]; ok {
		return p, nil
	}

	return nil, fmt.Errorf("no provider configured for agent %q (active: %q)", agentType, m.config.ActiveProvider)
}

// ExecutePrompt handles instruction adaptation before sending to the model
func (m *Manager) ExecutePrompt(ctx context.Context, agentType string, rawPrompt string, rawSystemPrompt string, options map[string]interface{}) (string, error) {
	provider, err := m.GetProvider(agentType)
	if err != nil {
		return "", err
	}

	adaptedSystemPrompt := provider.AdaptInstructions(rawSystemPrompt)
	return provider.GenerateResponse(ctx, rawPrompt, adaptedSystemPrompt, options)
}

func (m *Manager) SetGlobalProvider(newProvider string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.providers[newProvider]; !ok {
		return fmt.Errorf("provider %s not found", newProvider)
	}
	m.config.ActiveProvider = newProvider
	// A global switch wins over per-agent overrides.
	for name, ac := range m.config.Agents {
		ac.Provider = ""
		m.config.Agents[name] = ac
	}
	fmt.Printf("[AGENT] Global provider set to: %s\n", newProvider)
	return nil
}

func (m *Manager) GetActiveProvider() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config.ActiveProvider
}

// Available lists the registered provider names, sorted.
func (m *Manager) Available() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.providers))
	for name := range m.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
