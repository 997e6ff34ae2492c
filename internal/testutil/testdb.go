// Package testutil 测试用的内存SQLite数据库
// 建表用手写DDL而非AutoMigrate：模型tag里的postgres默认值（now()/jsonb）SQLite不识别
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// 与各模型gorm tag逐列对应的SQLite建表语句
var schema = []string{
	`CREATE TABLE event_districts (
		key TEXT PRIMARY KEY,
		abbreviation TEXT NOT NULL,
		display_name TEXT NOT NULL,
		year INTEGER NOT NULL,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE events (
		key TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		event_code TEXT NOT NULL,
		event_type INTEGER NOT NULL,
		event_type_string TEXT NOT NULL,
		year INTEGER NOT NULL,
		week INTEGER,
		start_date DATETIME NOT NULL,
		end_date DATETIME NOT NULL,
		city TEXT,
		state_prov TEXT,
		country TEXT,
		postal_code TEXT,
		address TEXT,
		location_name TEXT,
		lat REAL,
		lng REAL,
		timezone TEXT,
		short_name TEXT,
		website TEXT,
		gmaps_place_id TEXT,
		gmaps_url TEXT,
		first_event_id TEXT,
		first_event_code TEXT,
		playoff_type INTEGER,
		playoff_type_string TEXT,
		district_key TEXT,
		parent_event_key TEXT,
		division_keys TEXT,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE teams (
		key TEXT PRIMARY KEY,
		team_number INTEGER NOT NULL,
		nickname TEXT NOT NULL,
		name TEXT NOT NULL,
		school_name TEXT,
		city TEXT,
		state_prov TEXT,
		country TEXT,
		postal_code TEXT,
		website TEXT,
		rookie_year INTEGER,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE event_teams (
		event_key TEXT,
		team_key TEXT,
		created_at DATETIME,
		updated_at DATETIME,
		PRIMARY KEY (event_key, team_key)
	)`,
	`CREATE TABLE matches (
		key TEXT PRIMARY KEY,
		event_key TEXT NOT NULL,
		comp_level TEXT NOT NULL,
		set_number INTEGER NOT NULL,
		match_number INTEGER NOT NULL,
		winning_alliance TEXT DEFAULT '',
		time DATETIME,
		actual_time DATETIME,
		predicted_time DATETIME,
		post_result_time DATETIME,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE match_alliances (
		match_key TEXT,
		alliance_color TEXT,
		score INTEGER NOT NULL,
		score_breakdown TEXT,
		created_at DATETIME,
		updated_at DATETIME,
		PRIMARY KEY (match_key, alliance_color)
	)`,
	`CREATE TABLE match_alliance_teams (
		match_key TEXT,
		alliance_color TEXT,
		team_key TEXT,
		event_key TEXT NOT NULL,
		is_surrogate BOOLEAN DEFAULT 0,
		is_dq BOOLEAN DEFAULT 0,
		created_at DATETIME,
		updated_at DATETIME,
		PRIMARY KEY (match_key, alliance_color, team_key)
	)`,
	`CREATE TABLE alliances (
		event_key TEXT,
		name TEXT,
		alliance_order INTEGER,
		backup_in TEXT,
		backup_out TEXT,
		status TEXT,
		level TEXT,
		wins INTEGER,
		losses INTEGER,
		ties INTEGER,
		current_level_wins INTEGER,
		current_level_losses INTEGER,
		current_level_ties INTEGER,
		playoff_type INTEGER,
		playoff_average REAL,
		double_elim_round TEXT,
		round_robin_rank INTEGER,
		advanced_to_round_robin_finals BOOLEAN,
		created_at DATETIME,
		updated_at DATETIME,
		PRIMARY KEY (event_key, name)
	)`,
	`CREATE TABLE alliance_teams (
		event_key TEXT,
		alliance_name TEXT,
		team_key TEXT,
		pick_order INTEGER NOT NULL,
		created_at DATETIME,
		updated_at DATETIME,
		PRIMARY KEY (event_key, alliance_name, team_key)
	)`,
	`CREATE TABLE rankings (
		event_key TEXT,
		team_key TEXT,
		"rank" INTEGER NOT NULL,
		matches_played INTEGER NOT NULL,
		wins INTEGER,
		losses INTEGER,
		ties INTEGER,
		dq INTEGER DEFAULT 0,
		qual_average REAL,
		extra_stats TEXT,
		sort_orders TEXT,
		created_at DATETIME,
		updated_at DATETIME,
		PRIMARY KEY (event_key, team_key)
	)`,
	`CREATE TABLE ranking_event_infos (
		event_key TEXT PRIMARY KEY,
		extra_stats_info TEXT,
		sort_order_info TEXT,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE etags (
		endpoint TEXT PRIMARY KEY,
		etag TEXT NOT NULL,
		created_at DATETIME,
		updated_at DATETIME
	)`,
}

var dbSeq atomic.Int64

// NewDB 新建一个已建好全部表的内存库，测试结束自动销毁
// cache=shared让连接池里的多个连接（并发事务各占一个）看到同一份数据；
// 裸":memory:"下每个连接是各自独立的空库
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("打开内存SQLite失败: %v", err)
	}
	for _, ddl := range schema {
		if err := db.Exec(ddl).Error; err != nil {
			t.Fatalf("建表失败: %v", err)
		}
	}
	return db
}
