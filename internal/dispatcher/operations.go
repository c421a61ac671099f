package dispatcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/station-directory/internal/http/response"
	"github.com/magabrotheeeer/station-directory/internal/models"
	"github.com/magabrotheeeer/station-directory/internal/services/station"
	"github.com/magabrotheeeer/station-directory/internal/storage"
	"github.com/magabrotheeeer/station-directory/internal/validation"
)

const (
	msgUsernameExists  = "Username already exists"
	msgNotOwner        = "You are not the owner of this station"
	msgUpdateFailed    = "Failed to update this charging station. Error: "
	msgStationNotFound = "station not found"
	msgInternal        = "internal error"
)

func (d *Dispatcher) upsertProfile(ctx context.Context, uid string, payload json.RawMessage) response.Envelope {
	var req models.ProfileRequest
	if err := d.bind(payload, &req); err != nil {
		status, msg := validation.ProfileStatus(err)
		return response.ProfileStatus(status, uid, response.CodeInvalidArgument, msg)
	}

	status, err := d.profiles.Upsert(ctx, uid, req)
	switch {
	case status == models.ProfileStatusUsernameExists:
		return response.ProfileStatus(status, uid, response.CodeAlreadyExists, msgUsernameExists)
	case err != nil:
		return response.ProfileStatus(models.ProfileStatusWriteFailed, uid, response.CodeInternal, "Failed to save profile")
	}
	return response.ProfileStatus(models.ProfileStatusOK, uid, "", "")
}

func (d *Dispatcher) fetchProfile(ctx context.Context, uid string, _ json.RawMessage) response.Envelope {
	p, err := d.profiles.Fetch(ctx, uid)
	if err != nil {
		return response.Fail(response.CodeInternal, "Failed to fetch profile")
	}
	if p == nil {
		return response.OK(nil, "")
	}
	return response.OK(p, "")
}

func (d *Dispatcher) deleteProfile(ctx context.Context, uid string, _ json.RawMessage) response.Envelope {
	if err := d.profiles.Delete(ctx, uid); err != nil {
		return response.Fail(response.CodeInternal, "Failed to delete account")
	}
	return response.OK(nil, "")
}

func (d *Dispatcher) listAllStations(ctx context.Context, _ string, _ json.RawMessage) response.Envelope {
	list, err := d.stations.ListAll(ctx)
	if err != nil {
		return response.Fail(response.CodeInternal, "Failed to list stations")
	}
	return response.OK(list, "")
}

func (d *Dispatcher) listOwnedStations(ctx context.Context, uid string, _ json.RawMessage) response.Envelope {
	list, err := d.stations.ListOwned(ctx, uid)
	if err != nil {
		return response.Fail(response.CodeInternal, "Failed to list stations")
	}
	return response.OK(list, "")
}

func (d *Dispatcher) createStation(ctx context.Context, uid string, payload json.RawMessage) response.Envelope {
	var req models.CreateStationRequest
	if err := d.bind(payload, &req); err != nil {
		return response.Fail(response.CodeInvalidArgument, err.Error())
	}

	id, err := d.stations.Create(ctx, uid, req)
	if err != nil {
		return response.Fail(response.CodeInternal, "Failed to create station")
	}
	return response.OK(id, "Station created successfully")
}

func (d *Dispatcher) updateStation(ctx context.Context, uid string, payload json.RawMessage) response.Envelope {
	var req models.UpdateStationRequest
	if err := d.bind(payload, &req); err != nil {
		return response.Fail(response.CodeInvalidArgument, msgUpdateFailed+err.Error())
	}

	err := d.stations.Update(ctx, uid, req)
	switch {
	case errors.Is(err, station.ErrNotOwner):
		return response.Fail(response.CodePermissionDenied, msgNotOwner)
	case errors.Is(err, storage.ErrStationNotFound):
		return response.Fail(response.CodeNotFound, msgUpdateFailed+msgStationNotFound)
	case err != nil:
		return response.Fail(response.CodeInternal, msgUpdateFailed+msgInternal)
	}
	return response.OK(nil, fmt.Sprintf("Successfully modified station with id %s", req.ID))
}

func (d *Dispatcher) deleteStation(ctx context.Context, uid string, payload json.RawMessage) response.Envelope {
	var req models.DeleteStationRequest
	if err := d.bind(payload, &req); err != nil {
		return response.Fail(response.CodeInvalidArgument, err.Error())
	}

	err := d.stations.Remove(ctx, uid, req.ID)
	switch {
	case errors.Is(err, station.ErrNotOwner):
		return response.Fail(response.CodePermissionDenied, msgNotOwner)
	case err != nil:
		return response.Fail(response.CodeInternal, "Failed to delete station")
	}
	return response.OK(nil, fmt.Sprintf("Successfully deleted station with id '%s'", req.ID))
}

func (d *Dispatcher) fetchStationByID(ctx context.Context, _ string, payload json.RawMessage) response.Envelope {
	var req models.FetchStationRequest
	if err := d.bind(payload, &req); err != nil {
		return response.Fail(response.CodeInvalidArgument, err.Error())
	}

	st, err := d.stations.Read(ctx, req.StationID)
	if err != nil {
		return response.Fail(response.CodeInternal, "Failed to fetch station")
	}
	if st == nil {
		return response.OK(nil, "")
	}
	return response.OK(st, "")
}

func (d *Dispatcher) helloWorld(context.Context, string, json.RawMessage) response.Envelope {
	return response.OK("Hello World", "")
}
