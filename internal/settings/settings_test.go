package settings

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	s := New(viper.New())
	assert.Equal(t, DefaultMaxHistoryItems, s.MaxHistoryItems())
	assert.True(t, s.MonitorClipboard())
	assert.True(t, s.AutoCategories())
	assert.Equal(t, DefaultPollInterval, s.PollInterval())
	assert.NotEmpty(t, s.DataDir())
}

func TestConfiguredValuesWinOverDefaults(t *testing.T) {
	v := viper.New()
	v.Set(KeyMaxHistoryItems, 75)
	v.Set(KeyMonitorClipboard, false)
	v.Set(KeyPollInterval, 2*time.Second)

	s := New(v)
	assert.Equal(t, 75, s.MaxHistoryItems())
	assert.False(t, s.MonitorClipboard())
	assert.Equal(t, 2*time.Second, s.PollInterval())
}

func TestPollIntervalRejectsNonPositive(t *testing.T) {
	v := viper.New()
	v.Set(KeyPollInterval, "0s")
	s := New(v)
	assert.Equal(t, DefaultPollInterval, s.PollInterval())
}

func TestSetNotifiesListeners(t *testing.T) {
	s := New(viper.New())

	var keys []string
	s.OnChange(func(key string) { keys = append(keys, key) })

	s.Set(KeyMaxHistoryItems, 60)
	require.Equal(t, []string{KeyMaxHistoryItems}, keys)
	assert.Equal(t, 60, s.MaxHistoryItems())
}

func TestNotifyReloadUsesEmptyKey(t *testing.T) {
	s := New(viper.New())

	var keys []string
	s.OnChange(func(key string) { keys = append(keys, key) })

	s.NotifyReload()
	assert.Equal(t, []string{""}, keys)
}

func TestGetAndAll(t *testing.T) {
	v := viper.New()
	v.Set("custom_key", "custom")
	s := New(v)

	assert.Equal(t, "custom", s.Get("custom_key"))
	assert.Nil(t, s.Get("absent"))

	all := s.All()
	assert.Contains(t, all, KeyMaxHistoryItems)
	assert.Contains(t, all, "custom_key")
}
