package cron_config

type Config struct {
	// Standard cron expressions with a seconds field.
	CronScheduleHeartbeat   string `env:"CRON_SCHEDULE_HEARTBEAT" envDefault:"0 */5 * * * *"`
	CronScheduleFolderScan  string `env:"CRON_SCHEDULE_FOLDER_SCAN" envDefault:"0 */10 * * * *"`
}
