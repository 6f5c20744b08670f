// Package linear provides ordinary least squares regression.
package linear

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/regeval/core/model"
	"github.com/YuminosukeSato/regeval/core/parallel"
	"github.com/YuminosukeSato/regeval/pkg/errors"
)

const modelName = "LinearRegression"

// LinearRegression は線形回帰モデル
type LinearRegression struct {
	state *model.StateManager

	fitIntercept bool
	rcond        float64

	Weights   *mat.VecDense // 重み（係数）
	Intercept float64       // 切片
	Rank      int           // 中心化した X の数値的ランク
}

// NewLinearRegression は新しい線形回帰モデルを作成する
func NewLinearRegression(opts ...Option) *LinearRegression {
	lr := &LinearRegression{
		state:        model.NewStateManager(),
		fitIntercept: true,
	}
	for _, opt := range opts {
		opt(lr)
	}
	return lr
}

// Fit はモデルを訓練データで学習させる
//
// X と y を列平均で中心化したうえで、SVD による最小ノルム最小二乗解
// w = V Σ⁺ Uᵀ y を求め、切片を ȳ - x̄ᵀw として復元する。
// ランク落ちした X でも失敗しない。
func (lr *LinearRegression) Fit(X, y mat.Matrix) error {
	// 入力の検証
	r, c, err := model.CheckFitInput(modelName, X, y)
	if err != nil {
		return err
	}
	lr.state.Reset()

	xMean := make([]float64, c)
	var yMean float64
	if lr.fitIntercept {
		for i := 0; i < r; i++ {
			for j := 0; j < c; j++ {
				xMean[j] += X.At(i, j)
			}
			yMean += y.At(i, 0)
		}
		for j := range xMean {
			xMean[j] /= float64(r)
		}
		yMean /= float64(r)
	}

	// 並列処理の閾値（この値以下の行数では逐次処理を使用）
	const parallelThreshold = 1000

	Xc := mat.NewDense(r, c, nil)
	yc := mat.NewVecDense(r, nil)
	err = parallel.ParallelizeWithThreshold(r, parallelThreshold, func(start, end int) error {
		for i := start; i < end; i++ {
			for j := 0; j < c; j++ {
				Xc.Set(i, j, X.At(i, j)-xMean[j])
			}
			yc.SetVec(i, y.At(i, 0)-yMean)
		}
		return nil
	})
	if err != nil {
		return errors.NewFitError(modelName, "centering failed", err)
	}

	var svd mat.SVD
	if ok := svd.Factorize(Xc, mat.SVDThin); !ok {
		return errors.NewFitError(modelName, "SVD factorization failed", errors.ErrSingularMatrix)
	}

	rcond := lr.rcond
	if rcond <= 0 {
		rcond = math.Nextafter(1, 2) - 1
		rcond *= float64(max(r, c))
	}

	lr.Weights = mat.NewVecDense(c, nil)
	lr.Rank = svd.Rank(rcond)
	if lr.Rank > 0 {
		svd.SolveVecTo(lr.Weights, yc, lr.Rank)
	}

	lr.Intercept = yMean
	for j := 0; j < c; j++ {
		lr.Intercept -= xMean[j] * lr.Weights.AtVec(j)
	}

	if err := errors.CheckNumericalStability(modelName+".Fit", lr.Weights.RawVector().Data, 0); err != nil {
		return errors.NewFitError(modelName, "non-finite coefficients", err)
	}

	// モデルを学習済み状態に設定
	lr.state.SetDimensions(c, r)
	lr.state.SetFitted()

	return nil
}

// Predict は入力データに対する予測を行う
func (lr *LinearRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	r, err := lr.state.CheckPredictInput(modelName, X)
	if err != nil {
		return nil, err
	}

	// 予測: y = X * weights + intercept
	predictions := mat.NewVecDense(r, nil)
	predictions.MulVec(X, lr.Weights)
	for i := 0; i < r; i++ {
		predictions.SetVec(i, predictions.AtVec(i)+lr.Intercept)
	}

	return predictions, nil
}

// GetWeights は学習された重み（係数）を返す
func (lr *LinearRegression) GetWeights() []float64 {
	if lr.Weights == nil {
		return nil
	}

	weights := make([]float64, lr.Weights.Len())
	copy(weights, lr.Weights.RawVector().Data)
	return weights
}

// GetIntercept は学習された切片を返す
func (lr *LinearRegression) GetIntercept() float64 {
	if !lr.state.IsFitted() {
		return 0
	}
	return lr.Intercept
}

// GetParams はハイパーパラメータを返す
func (lr *LinearRegression) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"fit_intercept": lr.fitIntercept,
		"rcond":         lr.rcond,
	}
}
