// Package fantasy is the engine's view of the four league collaborators. Any
// failure coming back through it is a *ServiceError.
package fantasy

import (
	"context"
	"errors"
	"fmt"

	"github.com/omarshaarawi/courtside/internal/models"
)

var ErrServiceUnavailable = errors.New("service unavailable")

type ServiceError struct {
	Service string
	Err     error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Service, e.Err)
}

func (e *ServiceError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func (e *ServiceError) Is(target error) bool {
	return target == ErrServiceUnavailable
}

type PlayerDirectory interface {
	Players(ctx context.Context) ([]models.Player, error)
}

type GameweekDirectory interface {
	Gameweeks(ctx context.Context) ([]models.Gameweek, error)
}

type ScheduleService interface {
	Schedule(ctx context.Context, gameweekID int, playerIDs []int) (models.WeekSchedule, error)
}

type RecommendationService interface {
	Recommend(ctx context.Context, req models.AnalysisRequest) (*models.AnalysisResult, error)
}

const (
	servicePlayers         = "player directory"
	serviceGameweeks       = "gameweek directory"
	serviceSchedule        = "schedule service"
	serviceRecommendations = "recommendation service"
)

type API struct {
	players         PlayerDirectory
	gameweeks       GameweekDirectory
	schedule        ScheduleService
	recommendations RecommendationService
}

func NewAPI(players PlayerDirectory, gameweeks GameweekDirectory, schedule ScheduleService, recommendations RecommendationService) *API {
	return &API{
		players:         players,
		gameweeks:       gameweeks,
		schedule:        schedule,
		recommendations: recommendations,
	}
}

func (a *API) GetPlayers(ctx context.Context) ([]models.Player, error) {
	players, err := a.players.Players(ctx)
	if err != nil {
		return nil, &ServiceError{Service: servicePlayers, Err: err}
	}
	return players, nil
}

func (a *API) GetGameweeks(ctx context.Context) ([]models.Gameweek, error) {
	gameweeks, err := a.gameweeks.Gameweeks(ctx)
	if err != nil {
		return nil, &ServiceError{Service: serviceGameweeks, Err: err}
	}
	return gameweeks, nil
}

func (a *API) GetSchedule(ctx context.Context, gameweekID int, playerIDs []int) (models.WeekSchedule, error) {
	week, err := a.schedule.Schedule(ctx, gameweekID, playerIDs)
	if err != nil {
		return models.WeekSchedule{}, &ServiceError{Service: serviceSchedule, Err: err}
	}
	return week, nil
}

func (a *API) GetRecommendations(ctx context.Context, req models.AnalysisRequest) (*models.AnalysisResult, error) {
	result, err := a.recommendations.Recommend(ctx, req)
	if err != nil {
		return nil, &ServiceError{Service: serviceRecommendations, Err: err}
	}
	if result == nil {
		return nil, &ServiceError{Service: serviceRecommendations, Err: errors.New("empty response")}
	}
	return result, nil
}
