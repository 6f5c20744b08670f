package preprocessing

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/regeval/core/model"
	"github.com/YuminosukeSato/regeval/pkg/errors"
)

// Pipeline はスケーラーと回帰モデルを連結する。
// Fit ではスケーラーを訓練データのみで学習し、変換後のデータでモデルを学習する。
type Pipeline struct {
	Scaler    model.Transformer
	Regressor model.Regressor
}

// NewPipeline は scaler → regressor のパイプラインを作成する
//
// 使用例:
//
//	p := preprocessing.NewPipeline(preprocessing.NewStandardScalerDefault(), svm.NewSVR())
//	err := p.Fit(XTrain, yTrain)
//	yPred, err := p.Predict(XTest)
func NewPipeline(scaler model.Transformer, regressor model.Regressor) *Pipeline {
	return &Pipeline{Scaler: scaler, Regressor: regressor}
}

// Fit はスケーラーとモデルを順に学習する
func (p *Pipeline) Fit(X, y mat.Matrix) error {
	Xt, err := p.Scaler.FitTransform(X)
	if err != nil {
		return errors.Wrap(err, "pipeline: scaler fit")
	}
	return p.Regressor.Fit(Xt, y)
}

// Predict は学習済みスケーラーで X を変換してから予測する
func (p *Pipeline) Predict(X mat.Matrix) (mat.Matrix, error) {
	Xt, err := p.Scaler.Transform(X)
	if err != nil {
		return nil, err
	}
	return p.Regressor.Predict(Xt)
}

// GetParams は各ステップのパラメータを "scaler__" / "model__" 接頭辞付きで返す
func (p *Pipeline) GetParams() map[string]interface{} {
	params := make(map[string]interface{})
	if pg, ok := p.Scaler.(model.ParameterGetter); ok {
		for k, v := range pg.GetParams() {
			params["scaler__"+k] = v
		}
	}
	if pg, ok := p.Regressor.(model.ParameterGetter); ok {
		for k, v := range pg.GetParams() {
			params["model__"+k] = v
		}
	}
	return params
}
