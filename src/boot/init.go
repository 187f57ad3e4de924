package boot

import (
	"bss/src/common"
	"bss/src/db"
	"bss/src/lib"
	"bss/src/models"
	"log"

	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

func InitDb() *gorm.DB {
	db := db.GetDb()

	err := db.AutoMigrate(
		&models.Customer{},
		&models.ServiceType{},
		&models.SparePart{},
		&models.AppointmentSlot{},
		&models.ServiceBooking{},
	)
	if err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}

	return db
}

func InitScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("An error has occurred. Check logs for info")
		return
	}
	j, err := sched.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(8, 0, 0))),
		gocron.NewTask(common.SendUpcomingReminders),
	)
	if err != nil {
		log.Printf("Error running job: %s\n", err.Error())
		return
	}
	log.Printf("Job ID: %s %s\n", j.Name(), j.ID().String())
	sched.Start()
}

func StopScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("Error retrieving Scheduler. Check logs for info")
		return
	}
	err = sched.Shutdown()
	if err != nil {
		log.Println("An error has occurred while stopping Scheduler. Check logs for info")
		return
	}
}
