package vault

import (
	"context"
	"fmt"
	"sync"

	"github.com/hashicorp/vault/api"

	"severkey-server/config"
)

// Client wraps the HashiCorp Vault client for API key secret storage.
// When Vault is disabled the client keeps secrets in a local cache only,
// which is good enough for development and tests.
type Client struct {
	client *api.Client
	config config.VaultConfig
	mu     sync.RWMutex
	cache  map[string]string // secret name -> value
}

// NewClient creates a new Vault client
func NewClient(cfg config.VaultConfig) (*Client, error) {
	if !cfg.Enabled {
		return &Client{
			config: cfg,
			cache:  make(map[string]string),
		}, nil
	}

	vaultConfig := api.DefaultConfig()
	vaultConfig.Address = cfg.Address

	if cfg.TLSEnabled && cfg.CACert != "" {
		tlsConfig := &api.TLSConfig{
			CACert: cfg.CACert,
		}
		if err := vaultConfig.ConfigureTLS(tlsConfig); err != nil {
			return nil, fmt.Errorf("failed to configure TLS: %w", err)
		}
	}

	client, err := api.NewClient(vaultConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create vault client: %w", err)
	}

	client.SetToken(cfg.Token)

	return &Client{
		client: client,
		config: cfg,
		cache:  make(map[string]string),
	}, nil
}

// Enabled reports whether secrets actually reach a Vault server.
func (c *Client) Enabled() bool { return c.config.Enabled }

// StoreSecret writes a named secret to the KV v2 mount.
func (c *Client) StoreSecret(ctx context.Context, name, value string) error {
	c.mu.Lock()
	c.cache[name] = value
	c.mu.Unlock()

	if !c.config.Enabled {
		return nil
	}

	secretData := map[string]interface{}{
		"data": map[string]interface{}{
			"value": value,
		},
	}

	_, err := c.client.Logical().WriteWithContext(ctx, c.secretPath(name), secretData)
	if err != nil {
		return fmt.Errorf("failed to store secret in vault: %w", err)
	}
	return nil
}

// GetSecret retrieves a named secret, preferring the local cache.
func (c *Client) GetSecret(ctx context.Context, name string) (string, error) {
	c.mu.RLock()
	if cached, ok := c.cache[name]; ok {
		c.mu.RUnlock()
		return cached, nil
	}
	c.mu.RUnlock()

	if !c.config.Enabled {
		return "", fmt.Errorf("secret %q not found and vault is disabled", name)
	}

	secret, err := c.client.Logical().ReadWithContext(ctx, c.secretPath(name))
	if err != nil {
		return "", fmt.Errorf("failed to read secret from vault: %w", err)
	}
	if secret == nil || secret.Data == nil {
		return "", fmt.Errorf("secret %q not found", name)
	}

	data, ok := secret.Data["data"].(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("unexpected secret format for %q", name)
	}
	value, ok := data["value"].(string)
	if !ok {
		return "", fmt.Errorf("secret %q has no value field", name)
	}

	c.mu.Lock()
	c.cache[name] = value
	c.mu.Unlock()

	return value, nil
}

// DeleteSecret removes a named secret from the cache and, when enabled,
// from Vault.
func (c *Client) DeleteSecret(ctx context.Context, name string) error {
	c.mu.Lock()
	delete(c.cache, name)
	c.mu.Unlock()

	if !c.config.Enabled {
		return nil
	}

	_, err := c.client.Logical().DeleteWithContext(ctx, c.secretPath(name))
	if err != nil {
		return fmt.Errorf("failed to delete secret from vault: %w", err)
	}
	return nil
}

func (c *Client) secretPath(name string) string {
	mount := c.config.KVMount
	if mount == "" {
		mount = "secret"
	}
	return fmt.Sprintf("%s/data/severkey/api-keys/%s", mount, name)
}
