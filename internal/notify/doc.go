// Package notify sends email and text-style notifications for the scriptkit
// tools, driven entirely by keys in the config table.
//
// Email covers a single message to an explicit address list or to a list
// stored under a config key. Notify is the "text message" variant: it always
// sends to the NotifList key and logs at warn so the event is visible in
// otherwise quiet cron logs.
//
// The DontEmail and DontNotif config flags suppress sending for debugging;
// suppression is logged and reported as success. Delivery is at-most-once:
// transport failures come back as a NotifyError and are never retried here.
package notify
