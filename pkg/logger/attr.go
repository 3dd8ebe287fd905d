package logger

import "log/slog"

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Plate records a vehicle plate number under the key "plate_number".
func Plate(plate string) slog.Attr {
	if plate == "" {
		return slog.Attr{}
	}
	return slog.String("plate_number", plate)
}

// AreaID records a parking area identifier under the key "area_id".
// If id is nil, it returns an empty Attr.
func AreaID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("area_id", id)
}

// TransactionID records a parking transaction identifier under the key
// "transaction_id". If id is nil, it returns an empty Attr.
func TransactionID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("transaction_id", id)
}

// UserID records the user identifier under the key "user_id".
// If id is nil, it returns an empty Attr.
func UserID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("user_id", id)
}

// Role records a role name under the key "role".
// If role is nil, it returns an empty Attr.
func Role(role any) slog.Attr {
	if role == nil {
		return slog.Attr{}
	}
	return slog.Any("role", role)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	if name == "" {
		return slog.Attr{}
	}
	return slog.String("component", name)
}
