package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultTestConfig() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		panic(err)
	}
	return &Config{
		Workdir: filepath.Join(home, ".local", "share", "gaku"),
		Study: StudyConfig{
			NumDefaultCardsToStudy:   10,
			NumCurrentQuestions:      7,
			RequiredAnswers:          1,
			RepeatsAfterMistake:      2,
			ShuffleQuestions:         true,
			RadicalsTestMeaning:      true,
			PracticeRadicalsForKanji: true,
			PracticeKanjiForWords:    true,
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     3306,
			Database: "gaku",
			Username: "gaku",
		},
		Server: ServerConfig{
			Port: 8080,
			CORS: CORSConfig{
				AllowedOrigins: []string{"http://localhost:3000"},
			},
		},
		Dictionary: DictionaryConfig{
			CacheDirectory: filepath.Join("dictionaries", "jisho"),
		},
	}
}

func TestConfigLoader_Load(t *testing.T) {
	tests := []struct {
		name              string
		configContent     string
		want              func() *Config
		wantErr           bool
		wantErrorContains []string
	}{
		{
			name:          "missing config file uses defaults",
			configContent: "",
			want:          defaultTestConfig,
		},
		{
			name: "custom values override defaults",
			configContent: `workdir: /tmp/gaku
study:
  required_answers: 2
  num_current_questions: 5
database:
  host: db.local
  database: gaku_test
server:
  port: 9090
`,
			want: func() *Config {
				cfg := defaultTestConfig()
				cfg.Workdir = "/tmp/gaku"
				cfg.Study.RequiredAnswers = 2
				cfg.Study.NumCurrentQuestions = 5
				cfg.Database.Host = "db.local"
				cfg.Database.Database = "gaku_test"
				cfg.Server.Port = 9090
				return cfg
			},
		},
		{
			name: "invalid YAML format",
			configContent: `study:
  invalid yaml here [[[
`,
			wantErr: true,
			wantErrorContains: []string{
				"configuration file found but could not be read",
			},
		},
		{
			name: "validation rejects out of range values",
			configContent: `study:
  required_answers: 0
`,
			wantErr: true,
			wantErrorContains: []string{
				"invalid configuration",
				"required_answers",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tempDir := t.TempDir()

			var configPath string
			if tt.configContent != "" {
				configPath = filepath.Join(tempDir, "config.yaml")
				err := os.WriteFile(configPath, []byte(tt.configContent), 0644)
				require.NoError(t, err)
			}

			loader, err := NewConfigLoader(configPath)
			require.NoError(t, err)

			got, err := loader.Load()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)
				for _, wantMsg := range tt.wantErrorContains {
					assert.Contains(t, err.Error(), wantMsg)
				}
				return
			}

			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, tt.want(), got)
		})
	}
}

func TestConfigLoader_Load_defaultWorkdir(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, nil, 0644))

	loader, err := NewConfigLoader(configPath)
	require.NoError(t, err)

	got, err := loader.Load()
	require.NoError(t, err)

	// the snapshot store creates the workdir verbatim, so an unexpanded
	// variable would become a literal directory under the working directory
	assert.NotContains(t, got.Workdir, "$")
	assert.True(t, filepath.IsAbs(got.Workdir))

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".local", "share", "gaku"), got.Workdir)
}
