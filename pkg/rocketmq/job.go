package rocketmq

import (
	"encoding/json"
	"errors"

	"github.com/tidwall/gjson"
)

var ErrInvalidJob = errors.New("invalid tag job")

// TagJob asks a worker to caption and tag one photo.
type TagJob struct {
	PhotoID  int64  `json:"photo_id,string"`
	ImageURL string `json:"image_url"`
}

func (j TagJob) Encode() ([]byte, error) {
	return json.Marshal(j)
}

func DecodeTagJob(body []byte) (TagJob, error) {
	if !gjson.ValidBytes(body) {
		return TagJob{}, ErrInvalidJob
	}
	res := gjson.GetManyBytes(body, "photo_id", "image_url")
	job := TagJob{PhotoID: res[0].Int(), ImageURL: res[1].String()}
	if job.PhotoID <= 0 || job.ImageURL == "" {
		return TagJob{}, ErrInvalidJob
	}
	return job, nil
}
