package db

import "gorm.io/gorm"

// ActiveGames loads every active game with its players and hand histories,
// oldest first. Used to restore the in-memory store on boot.
func ActiveGames(conn *gorm.DB) ([]Game, error) {
	var games []Game
	err := conn.
		Preload("Players", func(tx *gorm.DB) *gorm.DB { return tx.Order("players.id") }).
		Preload("HandHistories", func(tx *gorm.DB) *gorm.DB { return tx.Order("hand_histories.id") }).
		Where("status = ?", "active").
		Order("id").
		Find(&games).Error
	if err != nil {
		return nil, err
	}
	return games, nil
}
