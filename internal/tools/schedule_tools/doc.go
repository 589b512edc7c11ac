// Package schedule_tools provides the MCP tools an agent uses to look up
// availability on the owner's calendar and to book meetings on it.
//
// get_user_schedule and schedule_meeting delegate to the injected scheduler.
// find_slots runs the slot finder directly on busy periods the caller
// already holds, without touching any calendar.
package schedule_tools
