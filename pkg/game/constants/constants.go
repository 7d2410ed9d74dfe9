package constants

const (
	// PlayerHealth is the health every player starts with.
	PlayerHealth = 100
	// BaseDamage is the damage of a hit before the region multiplier.
	BaseDamage = 10
	// HitBoxRadius is the default hitbox radius for a player.
	HitBoxRadius = 20.0
	// RoomCapacity is the fixed number of players per room.
	RoomCapacity = 2
)
