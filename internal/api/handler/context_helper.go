package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dthaibinhF/chemist-FE-sub000/internal/dto"
	"github.com/dthaibinhF/chemist-FE-sub000/internal/model"
	"github.com/dthaibinhF/chemist-FE-sub000/pkg/response"
	"github.com/dthaibinhF/chemist-FE-sub000/pkg/timeutil"
)

// MustGetIdentity extracts the caller's identity injected by the auth
// middleware. On failure it writes a 401 and returns ok=false; the
// caller should return immediately.
func MustGetIdentity(c *gin.Context) (model.Identity, bool) {
	idVal, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, 10002, "not authenticated")
		return model.Identity{}, false
	}
	userID, ok := idVal.(int64)
	if !ok {
		response.Unauthorized(c, 10002, "not authenticated")
		return model.Identity{}, false
	}

	roleVal, exists := c.Get("role")
	if !exists {
		response.Unauthorized(c, 10002, "not authenticated")
		return model.Identity{}, false
	}
	role, ok := roleVal.(model.Role)
	if !ok {
		response.Unauthorized(c, 10002, "not authenticated")
		return model.Identity{}, false
	}

	return model.Identity{
		UserID: userID,
		Name:   c.GetString("user_name"),
		Role:   role,
	}, true
}

// parseDateQuery reads the optional ?date=YYYY-MM-DD parameter as a
// Vietnam-local calendar date, defaulting to today. On a malformed
// value it writes a 400 and returns ok=false.
func parseDateQuery(c *gin.Context) (time.Time, bool) {
	raw := c.Query("date")
	if raw == "" {
		return timeutil.NowLocal(), true
	}
	t, err := time.ParseInLocation("2006-01-02", raw, timeutil.Location())
	if err != nil {
		response.BadRequest(c, 14001, "date must be YYYY-MM-DD")
		return time.Time{}, false
	}
	return t, true
}

// parseFilterQuery reads the optional schedule filter parameters.
func parseFilterQuery(c *gin.Context) dto.ScheduleFilter {
	var filter dto.ScheduleFilter
	filter.GroupID = queryInt64(c, "group_id")
	filter.TeacherID = queryInt64(c, "teacher_id")
	filter.RoomID = queryInt64(c, "room_id")
	if mode := c.Query("delivery_mode"); mode != "" {
		filter.Mode = model.DeliveryMode(mode)
	}
	return filter
}

// queryInt64 reads an optional numeric parameter; unparsable values
// leave the filter field at zero.
func queryInt64(c *gin.Context, name string) int64 {
	raw := c.Query(name)
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	return v
}
