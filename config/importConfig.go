package config

import (
	"fmt"
	"os"
	"sync"

	"github.com/madamisu/venue_backend/utils"
	"gopkg.in/yaml.v3"
)

// ImportConfig is the static configuration behind the schedule importer: the
// venue-name -> store-id mapping and the alias tables for scenario/staff
// name variants. It ships with built-in defaults and can be extended or
// overridden from a YAML file (IMPORT_CONFIG_FILE), since both tables grow
// with every season of source spreadsheets.
type ImportConfig struct {
	Venues          []VenueEntry      `yaml:"venues" validate:"dive"`
	ScenarioAliases map[string]string `yaml:"scenario_aliases"`
	StaffAliases    map[string]string `yaml:"staff_aliases"`
}

// VenueEntry maps a display name, as it appears in pasted schedule text, to
// a store id. Offsite venues (出張) are known names without a store id.
type VenueEntry struct {
	Name    string `yaml:"name" validate:"required"`
	StoreId string `yaml:"store_id" validate:"required_unless=Offsite true"`
	Offsite bool   `yaml:"offsite"`
}

var (
	importCfg     *ImportConfig
	importCfgOnce sync.Once
	importCfgErr  error
)

// GetImportConfig loads the import configuration once per process: built-in
// defaults merged with the optional YAML file.
func GetImportConfig() (*ImportConfig, error) {
	importCfgOnce.Do(func() {
		importCfg, importCfgErr = loadImportConfig(os.Getenv("IMPORT_CONFIG_FILE"))
	})
	return importCfg, importCfgErr
}

func loadImportConfig(path string) (*ImportConfig, error) {
	cfg := &ImportConfig{
		ScenarioAliases: DefaultScenarioAliases(),
		StaffAliases:    map[string]string{},
	}
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read import config %s: %w", path, err)
	}
	var file ImportConfig
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse import config %s: %w", path, err)
	}
	cfg.Venues = append(cfg.Venues, file.Venues...)
	for k, v := range file.ScenarioAliases {
		cfg.ScenarioAliases[k] = v
	}
	for k, v := range file.StaffAliases {
		cfg.StaffAliases[k] = v
	}
	if err := utils.ValidateStruct(cfg); err != nil {
		return nil, fmt.Errorf("invalid import config %s: %w", path, err)
	}
	return cfg, nil
}

// VenueMap returns the display-name -> store-id table. Presence of a key
// means the name is a recognized venue; an empty store id marks an offsite
// venue that blocks no store slot.
func (c *ImportConfig) VenueMap() map[string]string {
	m := make(map[string]string, len(c.Venues))
	for _, v := range c.Venues {
		if v.Offsite {
			m[v.Name] = ""
			continue
		}
		m[v.Name] = v.StoreId
	}
	return m
}

// DefaultScenarioAliases is the accumulated table of abbreviations and
// variant spellings seen in past schedule sheets. Returned as a fresh map so
// callers can layer their own entries without mutating shared state.
func DefaultScenarioAliases() map[string]string {
	return map[string]string{
		// 季節マダミス
		"カノケリ":      "季節／カノケリ",
		"アニクシィ":     "季節／アニクシィ",
		"シノポロ":      "季節／シノポロ",
		"キモナス":      "季節／キモナス",
		"ニィホン":      "季節／ニィホン",
		"季節カノケリ":    "季節／カノケリ",
		"季節アニクシィ":   "季節／アニクシィ",
		"季節/カノケリ":   "季節／カノケリ",
		"季節/アニクシィ":  "季節／アニクシィ",
		"季節/シノポロ":   "季節／シノポロ",
		"季節/キモナス":   "季節／キモナス",
		"季節/ニィホン":   "季節／ニィホン",
		// 略称
		"さきこさん":     "裂き子さん",
		"サキコサン":     "裂き子さん",
		"トレタリ":      "超特急の呪いの館で撮れ高足りてますか？",
		"赤鬼":        "赤鬼が泣いた夜",
		"invisible":  "Invisible-亡霊列車-",
		"Invisible":  "Invisible-亡霊列車-",
		"童話裁判":      "傲慢女王とアリスの不条理裁判",
		"ロスリメ":      "ロスト／リメンブランス",
		"ロストリメンブランス": "ロスト／リメンブランス",
		"へっぱに":      "へっどぎあ★ぱにっく",
		"ヘッパニ":      "へっどぎあ★ぱにっく",
		"ソルシエ":      "SORCIER〜賢者達の物語〜",
		"SORCIER":    "SORCIER〜賢者達の物語〜",
		"藍雨":        "藍雨廻逢",
		"百鬼月光":      "百鬼の夜、月光の影",
		"ドクターテラス":   "ドクター・テラスの秘密の実験",
		"ピタゴラス":     "ピタゴラスの篝火",
		"人形の心臓":     "機巧人形の心臓",
		"白殺し":       "白殺しType-K",
		"赤の動線":      "赤の導線",
		// ナナイロ
		"ナナイロ橙": "ナナイロの迷宮 橙 オンラインゲーム殺人事件",
		"ナナイロ緑": "ナナイロの迷宮 緑 アペイロン研究所殺人事件",
		"ナナイロ黄": "ナナイロの迷宮 黄 エレクトリカル吹奏楽部殺人事件",
		// 狂気山脈
		"狂気山脈1":   "狂気山脈　陰謀の分水嶺（１）",
		"狂気山脈2":   "狂気山脈　星降る天辺（２）",
		"狂気山脈3":   "狂気山脈　薄明三角点（３）",
		"狂気山脈2.5": "狂気山脈　2.5　頂上戦争",
	}
}
