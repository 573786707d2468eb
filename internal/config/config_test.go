package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.holded.com/api/invoicing/v1", cfg.Holded.BaseURL)
	assert.Equal(t, 200, cfg.Holded.PageLimit)
	assert.Equal(t, "noop", cfg.Mail.Provider)
	assert.Equal(t, "Europe/Madrid", cfg.Report.Timezone)
	assert.Equal(t, []int{36, 37, 35, 31, 30}, cfg.Pack.Sizes)
	assert.Equal(t, 36, cfg.Pack.Preferred)
	assert.Equal(t, []int{0}, cfg.Status.DraftCodes)
	assert.Equal(t, []int{9, 99}, cfg.Status.VoidCodes)
	assert.Equal(t, "file", cfg.Ledger.Backend)
	assert.Equal(t, "none", cfg.Archive.Backend)
	assert.Equal(t, "0 7 * * *", cfg.Schedule.Cron)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("VENDIDO_HOLDED_API_KEY", "secret")
	t.Setenv("VENDIDO_HOLDED_BASE_URL", "https://example.test/api/")
	t.Setenv("VENDIDO_MAIL_TO", "a@example.com, b@example.com")
	t.Setenv("VENDIDO_PACK_SIZES", "36,30")
	t.Setenv("VENDIDO_STATUS_VOID_CODES", "7")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.Holded.APIKey)
	assert.Equal(t, "https://example.test/api", cfg.Holded.BaseURL, "trailing slash trimmed")
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, cfg.Mail.To)
	assert.Equal(t, []int{36, 30}, cfg.Pack.Sizes)
	assert.Equal(t, []int{7}, cfg.Status.VoidCodes)
}

func TestLoad_BadIntList(t *testing.T) {
	t.Setenv("VENDIDO_PACK_SIZES", "36,abc")
	_, err := Load()
	require.Error(t, err)
}

func TestInferPackConfig_Rules(t *testing.T) {
	cfg := &Config{Pack: PackConfig{
		Sizes:     []int{36, 30},
		Preferred: 36,
		Rules:     "36=AIKO.*MAH72M; 31=LONGI.*HiMO",
	}}

	pc, err := cfg.InferPackConfig()
	require.NoError(t, err)
	require.Len(t, pc.Rules, 2)
	assert.Equal(t, 36, pc.Rules[0].Size)
	assert.True(t, pc.Rules[0].Pattern.MatchString("aiko neostar mah72mw"), "rules match case-insensitively")
	assert.Equal(t, 31, pc.Rules[1].Size)
}

func TestInferPackConfig_EmptyRulesUseDefaults(t *testing.T) {
	cfg := &Config{Pack: PackConfig{Sizes: []int{36}, Preferred: 36}}
	pc, err := cfg.InferPackConfig()
	require.NoError(t, err)
	assert.NotEmpty(t, pc.Rules)
}

func TestInferPackConfig_BadRule(t *testing.T) {
	tests := []struct {
		name  string
		rules string
	}{
		{"missing equals", "36AIKO"},
		{"bad size", "x=AIKO"},
		{"bad pattern", "36=AIKO[("},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Pack: PackConfig{Rules: tt.rules}}
			_, err := cfg.InferPackConfig()
			assert.Error(t, err)
		})
	}
}

func TestLocation(t *testing.T) {
	cfg := &Config{Report: ReportConfig{Timezone: "Europe/Madrid"}}
	assert.Equal(t, "Europe/Madrid", cfg.Location().String())

	cfg.Report.Timezone = "Not/AZone"
	assert.Equal(t, "UTC", cfg.Location().String())
}

func TestDBConfigDSN(t *testing.T) {
	d := DBConfig{
		Host: "db", Port: 5432, User: "vendido", Password: "pw",
		Name: "vendido_db", SSLMode: "disable",
	}
	assert.Equal(t, "postgres://vendido:pw@db:5432/vendido_db?sslmode=disable", d.DSN())
}
