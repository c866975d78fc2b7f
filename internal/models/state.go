package models

// UserState holds the current conversation step and the booking draft for a
// single chat. It round-trips through Redis as JSON, so numeric values may
// come back as float64 and need the typed getters below.
type UserState struct {
	UserID      int64                  `json:"user_id"`
	CurrentStep string                 `json:"current_step"`
	TempData    map[string]interface{} `json:"temp_data"`
}

// NewUserState returns a fresh state positioned at the main menu.
func NewUserState(userID int64) *UserState {
	return &UserState{
		UserID:      userID,
		CurrentStep: StateMainMenu,
		TempData:    make(map[string]interface{}),
	}
}

func (s *UserState) GetInt(key string) int {
	if s.TempData == nil {
		return 0
	}
	val, ok := s.TempData[key]
	if !ok {
		return 0
	}
	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

func (s *UserState) GetString(key string) string {
	if s.TempData == nil {
		return ""
	}
	val, ok := s.TempData[key]
	if !ok {
		return ""
	}
	if str, ok := val.(string); ok {
		return str
	}
	return ""
}

// Set stores a draft value, allocating the map on first use.
func (s *UserState) Set(key string, value interface{}) {
	if s.TempData == nil {
		s.TempData = make(map[string]interface{})
	}
	s.TempData[key] = value
}
