package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"mentorhub/config"
	"mentorhub/services/meeting"
	"mentorhub/services/recording"
	"mentorhub/services/settlement"
	"mentorhub/services/tasks"

	"github.com/hibiken/asynq"
)

// InitWorker runs the async worker and the periodic scheduler in the
// background. The worker drains the meeting-create and recording-ingest
// queues; the scheduler enqueues the session end sweep and the payout
// release sweep on a fixed cadence.
func InitWorker(meetingSvc meeting.MeetingService, pipelineSvc recording.PipelineService, settlementSvc settlement.SettlementService) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeMeetingCreate, handleMeetingCreate(meetingSvc))
	mux.HandleFunc(tasks.TypeRecordingIngest, handleRecordingIngest(pipelineSvc))
	mux.HandleFunc(tasks.TypeSessionSweep, handleSessionSweep(meetingSvc))
	mux.HandleFunc(tasks.TypePayoutRelease, handlePayoutRelease(settlementSvc))

	go func() {
		log.Println("[Worker] starting async worker...")
		const maxAttempts = 5
		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[Worker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)
				if attempts == maxAttempts {
					log.Fatal("[Worker] max retry attempts reached, exiting")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()

	go runScheduler(redisOpts)
}

// runScheduler enqueues the periodic sweeps. The tasks carry no payload;
// each handler queries for due work itself.
func runScheduler(redisOpts asynq.RedisClientOpt) {
	scheduler := asynq.NewScheduler(redisOpts, &asynq.SchedulerOpts{})

	if _, err := scheduler.Register("@every 5m", asynq.NewTask(tasks.TypeSessionSweep, nil)); err != nil {
		log.Printf("[Scheduler] failed to register session sweep: %v", err)
	}
	if _, err := scheduler.Register("@every 1h", asynq.NewTask(tasks.TypePayoutRelease, nil)); err != nil {
		log.Printf("[Scheduler] failed to register payout release: %v", err)
	}

	log.Println("[Scheduler] starting periodic scheduler...")
	if err := scheduler.Run(); err != nil {
		log.Printf("[Scheduler] scheduler stopped: %v", err)
	}
}

func handleMeetingCreate(svc meeting.MeetingService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p tasks.SessionTaskPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[MeetingCreate] invalid payload: %v", err)
			return err
		}
		if _, err := svc.CreateMeeting(ctx, p.SessionID); err != nil {
			log.Printf("[MeetingCreate] session %s: %v", p.SessionID, err)
			return err
		}
		return nil
	}
}

func handleRecordingIngest(svc recording.PipelineService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p tasks.SessionTaskPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[RecordingIngest] invalid payload: %v", err)
			return err
		}
		err := svc.Run(ctx, p.SessionID)
		if err == recording.ErrAttemptsExhausted {
			// Surfaced on the session; do not keep the task bouncing.
			log.Printf("[RecordingIngest] session %s exhausted attempts, awaiting manual retry", p.SessionID)
			return nil
		}
		if err != nil {
			log.Printf("[RecordingIngest] session %s: %v", p.SessionID, err)
			return err
		}
		return nil
	}
}

func handleSessionSweep(svc meeting.MeetingService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		return svc.SweepDueSessions(ctx)
	}
}

func handlePayoutRelease(svc settlement.SettlementService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		return svc.ReleaseDuePayouts(ctx)
	}
}
