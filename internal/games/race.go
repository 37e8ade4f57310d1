package games

import (
	"game-connect/server/internal/game"
)

const (
	raceTrackLength     = 1000.0
	raceCountdown       = 3.0 // seconds before movement unlocks
	raceMaxSpeed        = 200.0
	raceAcceleration    = 100.0
	raceBrakeFactor     = 0.5 // braking is half as effective
	raceBoostMultiplier = 2.0
	raceBoostCooldown   = 5.0
)

// Race is the real-time illustration rule set: one to eight players
// accelerate down a straight track; first across the line wins.
type Race struct {
	game.Session
	positions  map[string]float64
	velocities map[string]float64
	boostCools map[string]float64
	finished   map[string]float64 // player id -> race time at the line

	countdownLeft float64
	raceTime      float64
}

// NewRace creates an empty starting grid.
func NewRace() *Race {
	return &Race{
		positions:  make(map[string]float64),
		velocities: make(map[string]float64),
		boostCools: make(map[string]float64),
		finished:   make(map[string]float64),
	}
}

// Config declares a real-time game for one to eight players.
func (g *Race) Config() game.Config {
	return game.Config{MinPlayers: 1, MaxPlayers: 8, Mode: game.ModeRealTime}
}

// AddPlayer puts the player on the starting line.
func (g *Race) AddPlayer(id string) {
	g.positions[id] = 0
	g.velocities[id] = 0
	g.boostCools[id] = 0
	delete(g.finished, id)
}

// RemovePlayer drops the player's lane entirely.
func (g *Race) RemovePlayer(id string) {
	delete(g.positions, id)
	delete(g.velocities, id)
	delete(g.boostCools, id)
	delete(g.finished, id)
}

// Start resets every registered player to the line and arms the countdown.
func (g *Race) Start(playerIDs []string) {
	g.Begin()
	g.countdownLeft = raceCountdown
	g.raceTime = 0
	for _, id := range playerIDs {
		g.positions[id] = 0
		g.velocities[id] = 0
		g.boostCools[id] = 0
		delete(g.finished, id)
	}
}

// Update integrates each racer's velocity from their active inputs. The
// race ends once every remaining player has crossed the line; the lowest
// finish time wins.
func (g *Race) Update(inputs game.Inputs, dt float64) {
	if g.Over() || !g.Status().Started {
		return
	}

	if g.countdownLeft > 0 {
		g.countdownLeft -= dt
		if g.countdownLeft > 0 {
			return
		}
		g.countdownLeft = 0
	}
	g.raceTime += dt

	active := 0
	for id := range g.positions {
		if _, done := g.finished[id]; !done {
			active++
		}
	}
	if active == 0 {
		g.End(g.fastestFinisher())
		return
	}

	for id, position := range g.positions {
		if _, done := g.finished[id]; done {
			continue
		}
		keys := inputs[id]

		accel := 0.0
		if keys.Has("w") || keys.Has("ArrowUp") {
			accel += raceAcceleration
		}
		if keys.Has("s") || keys.Has("ArrowDown") {
			accel -= raceAcceleration * raceBrakeFactor
		}

		if keys.Has(" ") && g.boostCools[id] <= 0 {
			accel *= raceBoostMultiplier
			g.boostCools[id] = raceBoostCooldown
		}
		if g.boostCools[id] > 0 {
			g.boostCools[id] -= dt
			if g.boostCools[id] < 0 {
				g.boostCools[id] = 0
			}
		}

		velocity := g.velocities[id] + accel*dt
		if velocity < 0 {
			velocity = 0
		}
		if velocity > raceMaxSpeed {
			velocity = raceMaxSpeed
		}
		position += velocity * dt

		if position >= raceTrackLength {
			g.finished[id] = g.raceTime
		}

		g.positions[id] = position
		g.velocities[id] = velocity
	}
}

// HandleMove rejects everything: the race is driven by the input stream.
func (g *Race) HandleMove(playerID string, move map[string]any) game.Result {
	return game.Invalid("Race has no turn-based moves")
}

// ViewFor shares all lane data; positions are public in a race.
func (g *Race) ViewFor(playerID string) game.View {
	status := g.Status()
	finished := make(map[string]any, len(g.positions))
	for id := range g.positions {
		if t, done := g.finished[id]; done {
			finished[id] = t
		} else {
			finished[id] = nil
		}
	}

	view := game.View{
		"positions":       copyFloats(g.positions),
		"velocities":      copyFloats(g.velocities),
		"boost_cooldowns": copyFloats(g.boostCools),
		"finished":        finished,
		"track_length":    raceTrackLength,
		"countdown":       g.countdownLeft,
		"race_time":       g.raceTime,
		"game_started":    status.Started,
		"game_over":       status.Over,
		"winner":          status.Winner,
	}
	view["your_position"] = g.positions[playerID]
	view["your_velocity"] = g.velocities[playerID]
	view["your_boost_cooldown"] = g.boostCools[playerID]
	view["your_finished"] = finished[playerID]
	return view
}

// fastestFinisher returns the player with the lowest finish time, or empty
// when nobody crossed the line.
func (g *Race) fastestFinisher() string {
	winner := ""
	best := 0.0
	for id, t := range g.finished {
		if winner == "" || t < best {
			winner = id
			best = t
		}
	}
	return winner
}

func copyFloats(src map[string]float64) map[string]float64 {
	dst := make(map[string]float64, len(src))
	for key, value := range src {
		dst[key] = value
	}
	return dst
}
