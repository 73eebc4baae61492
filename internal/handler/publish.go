package handler

import (
	"encoding/json"

	"github.com/aizatop/alive/internal/app/realtime"
	"github.com/aizatop/alive/internal/pkg/logx"
)

// publishInsert pushes a freshly inserted row onto the realtime feed.
// The row is already committed; a feed failure only costs subscribers the
// push, so it is logged and swallowed.
func publishInsert(feed realtime.Feed, table string, record any) {
	if feed == nil {
		return
	}

	data, err := json.Marshal(record)
	if err != nil {
		logx.Error(err, "Failed to marshal record for realtime feed", "table", table)
		return
	}

	if err := feed.Publish(realtime.InsertEvent{Table: table, Record: data}); err != nil {
		logx.Error(err, "Failed to publish insert event", "table", table)
	}
}
